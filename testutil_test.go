// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fitsio

import "bytes"

// mkCard builds an 80-byte value card "KEY     = VAL..." left padded with
// trailing spaces, for hand-constructing literal FITS fixtures in tests.
func mkCard(key, val string) []byte {
	b := bytes.Repeat([]byte(" "), cardSize)
	line := key
	for len(line) < keySize {
		line += " "
	}
	line += "= " + val
	copy(b, line)
	return b
}

// mkContinueCard builds a CONTINUE card per the FITS convention: unlike a
// normal value card, columns 9-10 hold no "= " — the keyword is followed
// directly by the continuation string.
func mkContinueCard(val string) []byte {
	b := bytes.Repeat([]byte(" "), cardSize)
	copy(b, "CONTINUE "+val)
	return b
}

func mkEnd() []byte {
	b := bytes.Repeat([]byte(" "), cardSize)
	copy(b, "END")
	return b
}

func mkBlank() []byte {
	return bytes.Repeat([]byte(" "), cardSize)
}

// padBlockBytes appends blank cards/zero bytes until buf's length is a
// multiple of 2880.
func padBlockBytes(buf []byte, fill byte) []byte {
	for len(buf)%blockSize != 0 {
		buf = append(buf, fill)
	}
	return buf
}

func buildHeader(cards ...[]byte) []byte {
	var buf []byte
	for _, c := range cards {
		buf = append(buf, c...)
	}
	buf = append(buf, mkEnd()...)
	for len(buf)%blockSize != 0 {
		buf = append(buf, mkBlank()...)
	}
	return buf
}

func buildData(data []byte) []byte {
	out := append([]byte{}, data...)
	return padBlockBytes(out, 0)
}
