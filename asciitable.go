// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fitsio

import "io"

// AsciiRows is the reader for a TABLE (ASCII table) extension's data unit.
// Field interpretation (TBCOLn-driven column slicing, numeric parsing of the
// ASCII text) is out of scope (spec Non-goals); rows are surfaced as raw
// fixed-width byte records of NAXIS1 bytes each, leaving interpretation to
// the caller.
//
// Grounded on table.go's ASCII_TBL branch of Table, trimmed to the
// raw-bytes-only surface the spec calls for.
type AsciiRows struct {
	h       *HDUHandle
	rowSize int64
	nrows   int64
	cur     int64
}

// AsciiBytes opens the raw-bytes reader for an ASCII TABLE HDU.
func (h *HDUHandle) AsciiBytes() (*AsciiRows, error) {
	if h.xt.Kind != AsciiTable {
		return nil, &OutOfRangeError{Reason: "AsciiBytes called on a " + h.xt.Kind.String() + " HDU"}
	}
	if err := h.borrow(); err != nil {
		return nil, err
	}
	return &AsciiRows{h: h, rowSize: h.xt.RowSize(), nrows: h.xt.NumRows(), cur: -1}, nil
}

// NumRows returns NAXIS2.
func (a *AsciiRows) NumRows() int64 { return a.nrows }

// RowSize returns NAXIS1, the fixed byte width of every row.
func (a *AsciiRows) RowSize() int64 { return a.rowSize }

// Next reads the next row's raw bytes, or returns io.EOF once all NAXIS2
// rows have been consumed.
func (a *AsciiRows) Next() ([]byte, error) {
	a.cur++
	if a.cur >= a.nrows {
		return nil, io.EOF
	}
	buf := make([]byte, a.rowSize)
	if _, err := io.ReadFull(a.h.dataReader(), buf); err != nil {
		return nil, &IoError{Op: "read ascii table row", Err: err}
	}
	return buf, nil
}
