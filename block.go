// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fitsio

import (
	"bufio"
	"io"
)

// cardState is the outcome of a blockReader.nextCard call.
type cardState int

const (
	cardOK cardState = iota
	cardEndOfBlock
	cardEndOfStream
)

// blockReader supplies fixed-size 80-byte cards from a 2880-byte-aligned
// byte stream (spec §4.1). It never partially returns a card: an EOF that
// lands mid-card is reported as a fatal IoError, never silently truncated.
//
// Grounded on decode.go:streamDecoder.DecodeHDU's former io.ReadFull(2880)
// loop, pulled out into its own component per spec §2/§4.1 so the HDU
// engine can compose it independently of header assembly.
type blockReader struct {
	raw     io.Reader // underlying source, used for direct seeks
	r       *bufio.Reader
	inBlock int   // bytes consumed so far within the current 2880-byte block
	pos     int64 // cumulative bytes logically consumed since the stream start
}

func newBlockReader(r io.Reader) *blockReader {
	return &blockReader{raw: r, r: bufio.NewReaderSize(r, blockSize)}
}

// nextCard returns the next 80-byte card, or signals a block/stream boundary.
func (b *blockReader) nextCard() ([]byte, cardState, error) {
	if b.inBlock == blockSize {
		b.inBlock = 0
		return nil, cardEndOfBlock, nil
	}

	buf := make([]byte, cardSize)
	n, err := io.ReadFull(b.r, buf)
	switch {
	case err == io.EOF && n == 0 && b.inBlock == 0:
		return nil, cardEndOfStream, nil
	case err == io.ErrUnexpectedEOF || (err == io.EOF && n > 0):
		return nil, cardOK, &IoError{Op: "read card", Err: io.ErrUnexpectedEOF}
	case err == io.EOF:
		return nil, cardEndOfStream, nil
	case err != nil:
		return nil, cardOK, &IoError{Op: "read card", Err: err}
	}

	b.inBlock += cardSize
	b.pos += cardSize
	return buf, cardOK, nil
}

// advance records n bytes consumed directly off b.r by a caller that bypasses
// nextCard (the HDU data-unit reader), keeping pos accurate for callers that
// need the stream's current absolute offset.
func (b *blockReader) advance(n int64) { b.pos += n }

// resync discards any bytes bufio has pre-fetched and re-anchors the logical
// cursor at pos. Called after a direct seek on the shared underlying source
// that is followed by reads through b.r (image.go's At, HDUHandle.finish):
// bufio.Reader has no way to notice the seek, so without this its buffered
// bytes go stale. Table row and heap reads on a seekable source also seek
// directly but read from the source itself, not b.r, and do not resync.
func (b *blockReader) resync(pos int64) {
	b.r.Reset(b.raw)
	b.inBlock = 0
	b.pos = pos
}

// skip discards n bytes from the underlying stream, used by the HDU engine
// to fast-forward past the unread rest of a data unit. HDUHandle.finish calls
// it only for non-seekable sources, possibly after part of the data unit has
// been read, so bytes may be buffered; the CopyN branch discards through the
// bufio.Reader and consumes them first. The Seek branch bypasses the buffer
// and is only correct when b.r.Buffered() == 0.
func (b *blockReader) skip(n int64) error {
	if n <= 0 {
		return nil
	}
	if seeker, ok := b.raw.(io.Seeker); ok {
		_, err := seeker.Seek(n, io.SeekCurrent)
		if err != nil {
			return &IoError{Op: "skip", Err: err}
		}
		b.pos += n
		return nil
	}
	_, err := io.CopyN(io.Discard, b.r, n)
	if err != nil {
		return &IoError{Op: "skip", Err: err}
	}
	b.pos += n
	return nil
}

