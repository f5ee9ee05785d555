// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fitsio

import (
	"fmt"
	"io"
)

// column is one decoded TFORM/TTYPE field within a binary table row.
type column struct {
	Name   string
	Form   FieldForm
	Offset int // byte offset within a row
}

// VLADescriptor is a decoded P/Q variable-length-array pointer: Count
// elements live at Offset bytes into the heap area that follows the table's
// fixed-size rows within the same data unit (spec §4.6).
type VLADescriptor struct {
	Count  int64
	Offset int64
}

// Table is the Binary Table Reader for a BINTABLE HDU (spec §4.6).
//
// Grounded on table.go's Table/Column pair and rows.go's Rows cursor, but
// restructured around the pull-based engine: rather than table.go's eager
// decode.go-populated `data []byte` / `heap []byte` fields loaded for the
// whole file up front, rows are read one at a time off the HDU's data
// cursor. The heap is only ever materialized in memory when the byte source
// is not seekable and the table actually has a VLA column (spec §4.6/§4.9's
// "buffer heap when not seekable" fallback); a seekable source resolves heap
// reads with direct seeks instead.
type Table struct {
	h       *HDUHandle
	cols    []column
	rowSize int64
	nrows   int64
	heapOff int64 // byte offset from data-unit start to the heap area
	pcount  int64 // heap size; PCOUNT=0 means an empty heap regardless of THEAP

	// raw holds the entire data unit (rows + heap) when the source is not
	// seekable and a VLA column forces eager buffering; nil otherwise.
	raw []byte
}

// Rows opens the Binary Table Reader and returns a row cursor positioned
// before the first row.
func (h *HDUHandle) Rows() (*Rows, error) {
	if h.xt.Kind != BinTable {
		return nil, &OutOfRangeError{Reason: "Rows called on a " + h.xt.Kind.String() + " HDU"}
	}
	if err := h.borrow(); err != nil {
		return nil, err
	}

	cols := make([]column, h.xt.Tfields)
	offset := 0
	hasVLA := false
	for i := 0; i < h.xt.Tfields; i++ {
		form, err := parseTForm(h.xt.Tform[i])
		if err != nil {
			return nil, err
		}
		cols[i] = column{Name: h.xt.Ttype[i], Form: form, Offset: offset}
		offset += form.InRowSize()
		hasVLA = hasVLA || form.IsVLA
	}

	theap := h.xt.RowSize() * h.xt.NumRows()
	if h.header.Has("THEAP") {
		theap = h.header.Int("THEAP")
	}
	t := &Table{
		h:       h,
		cols:    cols,
		rowSize: h.xt.RowSize(),
		nrows:   h.xt.NumRows(),
		heapOff: theap,
		pcount:  h.xt.Pcount,
	}

	if hasVLA && !h.stream.src.Seekable() {
		raw := make([]byte, h.xt.DataBytes)
		if _, err := io.ReadFull(h.dataReader(), raw); err != nil {
			return nil, &IoError{Op: "buffer table heap", Err: err}
		}
		t.raw = raw
	}

	return &Rows{table: t, n: t.nrows, cur: -1}, nil
}

// Index returns the column index named n, or -1.
func (t *Table) Index(n string) int {
	for i := range t.cols {
		if t.cols[i].Name == n {
			return i
		}
	}
	return -1
}

// NumCols returns the field count.
func (t *Table) NumCols() int { return len(t.cols) }

// rowBytes returns the raw bytes of row i.
func (t *Table) rowBytes(i int64) ([]byte, error) {
	if t.raw != nil {
		beg := i * t.rowSize
		return t.raw[beg : beg+t.rowSize], nil
	}
	if t.h.stream.src.Seekable() {
		if err := t.h.seekTo(i * t.rowSize); err != nil {
			return nil, err
		}
		buf := make([]byte, t.rowSize)
		if _, err := io.ReadFull(t.h.stream.src, buf); err != nil {
			return nil, &IoError{Op: "read table row", Err: err}
		}
		return buf, nil
	}
	buf := make([]byte, t.rowSize)
	if _, err := io.ReadFull(t.h.dataReader(), buf); err != nil {
		return nil, &IoError{Op: "read table row", Err: err}
	}
	return buf, nil
}

// heapBytes resolves a VLA descriptor's payload.
func (t *Table) heapBytes(d VLADescriptor, elemSize int64) ([]byte, error) {
	if t.pcount == 0 {
		return nil, nil // PCOUNT=0 means an empty heap (spec §9 open question)
	}
	n := d.Count * elemSize
	if t.raw != nil {
		beg := t.heapOff + d.Offset
		if beg < 0 || beg+n > int64(len(t.raw)) {
			return nil, &OutOfRangeError{Reason: "VLA descriptor points outside the heap"}
		}
		return t.raw[beg : beg+n], nil
	}
	if !t.h.stream.src.Seekable() {
		return nil, &UnsupportedFeatureError{Feature: "VLA heap access on a non-seekable byte source"}
	}
	if err := t.h.seekTo(t.heapOff + d.Offset); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(t.h.stream.src, buf); err != nil {
		return nil, &IoError{Op: "read table heap", Err: err}
	}
	return buf, nil
}

// decodeField decodes one column's raw row bytes per spec §4.6's element
// table. VLA fields decode only the descriptor; callers resolve the payload
// through Rows.Heap.
func decodeField(form FieldForm, raw []byte) (interface{}, error) {
	if form.IsVLA {
		if form.Wide {
			return VLADescriptor{Count: beI64(raw[0:8]), Offset: beI64(raw[8:16])}, nil
		}
		return VLADescriptor{Count: int64(beI32(raw[0:4])), Offset: int64(beI32(raw[4:8]))}, nil
	}
	return decodeFixed(form, raw)
}

// decodeFixed decodes a non-VLA field's (or a resolved VLA payload's) bytes
// into a Go slice, or a scalar when Repeat==1 and the element isn't char.
func decodeFixed(form FieldForm, raw []byte) (interface{}, error) {
	n := form.Repeat
	switch form.Elem {
	case TLogical:
		out := make([]bool, n)
		for i := 0; i < n; i++ {
			out[i] = raw[i] == 'T'
		}
		if n == 1 {
			return out[0], nil
		}
		return out, nil
	case TByte:
		out := make([]byte, n)
		copy(out, raw[:n])
		if n == 1 {
			return out[0], nil
		}
		return out, nil
	case TChar:
		return string(raw[:n]), nil
	case TInt16:
		out := make([]int16, n)
		for i := 0; i < n; i++ {
			out[i] = beI16(raw[i*2:])
		}
		if n == 1 {
			return out[0], nil
		}
		return out, nil
	case TInt32:
		out := make([]int32, n)
		for i := 0; i < n; i++ {
			out[i] = beI32(raw[i*4:])
		}
		if n == 1 {
			return out[0], nil
		}
		return out, nil
	case TInt64:
		out := make([]int64, n)
		for i := 0; i < n; i++ {
			out[i] = beI64(raw[i*8:])
		}
		if n == 1 {
			return out[0], nil
		}
		return out, nil
	case TFloat32:
		out := make([]float32, n)
		for i := 0; i < n; i++ {
			out[i] = beF32(raw[i*4:])
		}
		if n == 1 {
			return out[0], nil
		}
		return out, nil
	case TFloat64:
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			out[i] = beF64(raw[i*8:])
		}
		if n == 1 {
			return out[0], nil
		}
		return out, nil
	case TComplex64:
		out := make([]complex64, n)
		for i := 0; i < n; i++ {
			out[i] = complex(beF32(raw[i*8:]), beF32(raw[i*8+4:]))
		}
		if n == 1 {
			return out[0], nil
		}
		return out, nil
	case TComplex128:
		out := make([]complex128, n)
		for i := 0; i < n; i++ {
			out[i] = complex(beF64(raw[i*16:]), beF64(raw[i*16+8:]))
		}
		if n == 1 {
			return out[0], nil
		}
		return out, nil
	default:
		return nil, &MalformedHeaderError{Reason: fmt.Sprintf("unsupported field element type %v", form.Elem)}
	}
}
