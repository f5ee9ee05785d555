// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fitsio

import "io"

// source is the byte source the engine reads from: any io.Reader, optionally
// also an io.Seeker. Random-access image/VLA reads require seekability;
// everything else degrades gracefully to sequential-only behavior.
//
// Grounded on driver.go's Conn interface (io.Reader+io.Writer+io.Closer) and
// file.go:Open's duck-typed `namer` check; trimmed to the read-only,
// write-free surface this engine needs and renamed around "seekability"
// rather than a registerable multi-backend driver (the write-side Driver/
// Register machinery existed only to support Create/EncodeHDU, dropped with
// the write path per spec's "writing FITS" Non-goal).
type source struct {
	r io.Reader
	s io.Seeker // non-nil iff r also implements io.Seeker
}

func newSource(r io.Reader) *source {
	src := &source{r: r}
	if s, ok := r.(io.Seeker); ok {
		src.s = s
	}
	return src
}

func (s *source) Read(p []byte) (int, error) { return s.r.Read(p) }

func (s *source) Seekable() bool { return s.s != nil }

// Seek implements io.Seeker for SeekAbs. It is defined whether or not the
// wrapped reader can seek, so a *source always satisfies io.Seeker; this is
// why Open builds the blockReader over the caller's original reader rather
// than over a *source.
func (s *source) Seek(offset int64, whence int) (int64, error) {
	if s.s == nil {
		return 0, &UnsupportedFeatureError{Feature: "seek on a non-seekable byte source"}
	}
	return s.s.Seek(offset, whence)
}

// SeekAbs seeks to an absolute offset. Callers must check Seekable() first;
// the engine only ever calls this after confirming seekability, mirroring
// spec §4.5's "Random" mode requirement.
func (s *source) SeekAbs(offset int64) error {
	if _, err := s.Seek(offset, io.SeekStart); err != nil {
		return &IoError{Op: "seek", Err: err}
	}
	return nil
}
