// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fitsio

import (
	"bytes"
	"io"
	"testing"
)

// TestScenarioS1PrimaryImage covers scenario S1: a primary-only HDU holding
// six BITPIX=8 pixels, read fully, with Next() reporting clean end-of-stream.
func TestScenarioS1PrimaryImage(t *testing.T) {
	var raw []byte
	raw = append(raw, buildHeader(
		mkCard("SIMPLE", "T"),
		mkCard("BITPIX", "8"),
		mkCard("NAXIS", "1"),
		mkCard("NAXIS1", "6"),
	)...)
	raw = append(raw, buildData([]byte{10, 20, 30, 40, 50, 60})...)

	stream, err := Open(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	hdu, err := stream.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if hdu == nil {
		t.Fatalf("expected a primary HDU")
	}
	if hdu.Kind() != Primary {
		t.Fatalf("got kind %v, want Primary", hdu.Kind())
	}

	img, err := hdu.ImageData()
	if err != nil {
		t.Fatalf("ImageData: %v", err)
	}
	if img.Len() != 6 {
		t.Fatalf("got Len()=%d, want 6", img.Len())
	}
	buf := make([]uint8, 6)
	n, err := img.NextUint8(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("NextUint8: %v", err)
	}
	if n != 6 {
		t.Fatalf("got n=%d, want 6", n)
	}
	want := []uint8{10, 20, 30, 40, 50, 60}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("pixel %d = %d, want %d", i, buf[i], want[i])
		}
	}

	next, err := stream.Next()
	if err != nil {
		t.Fatalf("Next (eof): %v", err)
	}
	if next != nil {
		t.Fatalf("expected nil HDU at end of stream")
	}
}

// TestScenarioS3ExtensionSkipEquivalence covers scenario S3: advancing past
// an HDU without consuming its image data yields the same next-HDU header as
// advancing after consuming it in full.
func TestScenarioS3ExtensionSkipEquivalence(t *testing.T) {
	build := func() []byte {
		var raw []byte
		raw = append(raw, buildHeader(
			mkCard("SIMPLE", "T"),
			mkCard("BITPIX", "8"),
			mkCard("NAXIS", "1"),
			mkCard("NAXIS1", "4"),
		)...)
		raw = append(raw, buildData([]byte{1, 2, 3, 4})...)
		raw = append(raw, buildHeader(
			mkCard("XTENSION", "'IMAGE   '"),
			mkCard("BITPIX", "-32"),
			mkCard("NAXIS", "1"),
			mkCard("NAXIS1", "4"),
			mkCard("PCOUNT", "0"),
			mkCard("GCOUNT", "1"),
		)...)
		pix := []byte{0x3F, 0x80, 0x00, 0x00, 0x40, 0x00, 0x00, 0x00, 0x40, 0x40, 0x00, 0x00, 0x40, 0x80, 0x00, 0x00}
		raw = append(raw, buildData(pix)...)
		return raw
	}

	// path A: consume the primary image fully before advancing.
	streamA, _ := Open(bytes.NewReader(build()))
	hduA, err := streamA.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	imgA, err := hduA.ImageData()
	if err != nil {
		t.Fatalf("ImageData: %v", err)
	}
	buf := make([]uint8, 4)
	if _, err := imgA.NextUint8(buf); err != nil && err != io.EOF {
		t.Fatalf("NextUint8: %v", err)
	}
	extA, err := streamA.Next()
	if err != nil {
		t.Fatalf("Next (ext A): %v", err)
	}
	if extA == nil {
		t.Fatalf("expected extension HDU")
	}

	// path B: advance without touching the primary's data at all.
	streamB, _ := Open(bytes.NewReader(build()))
	if _, err := streamB.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	extB, err := streamB.Next()
	if err != nil {
		t.Fatalf("Next (ext B): %v", err)
	}
	if extB == nil {
		t.Fatalf("expected extension HDU")
	}

	if extA.Kind() != extB.Kind() || extA.Xtension().Bitpix != extB.Xtension().Bitpix {
		t.Fatalf("skip-equivalence violated: %+v vs %+v", extA.Xtension(), extB.Xtension())
	}

	imgB, err := extB.ImageData()
	if err != nil {
		t.Fatalf("ImageData: %v", err)
	}
	want := []float32{1.0, 2.0, 3.0, 4.0}
	got := make([]float32, 4)
	if _, err := imgB.NextFloat32(got); err != nil && err != io.EOF {
		t.Fatalf("NextFloat32: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pixel %d = %v, want %v", i, got[i], want[i])
		}
	}
}

// TestScenarioS4BinTableVLA covers scenario S4: a single-row BINTABLE with a
// P-descriptor VLA column pointing into the heap.
func TestScenarioS4BinTableVLA(t *testing.T) {
	var raw []byte
	raw = append(raw, buildHeader(
		mkCard("XTENSION", "'BINTABLE'"),
		mkCard("BITPIX", "8"),
		mkCard("NAXIS", "2"),
		mkCard("NAXIS1", "8"),
		mkCard("NAXIS2", "1"),
		mkCard("PCOUNT", "12"),
		mkCard("GCOUNT", "1"),
		mkCard("TFIELDS", "1"),
		mkCard("TFORM1", "'1PE(3)  '"),
		mkCard("TTYPE1", "'SPEC    '"),
	)...)

	row := make([]byte, 8)
	putBeI32(row[0:4], 3) // descriptor count
	putBeI32(row[4:8], 0) // descriptor offset into the heap
	heap := make([]byte, 12)
	putBeF32(heap[0:4], 1.0)
	putBeF32(heap[4:8], 2.0)
	putBeF32(heap[8:12], 3.0)
	raw = append(raw, buildData(append(row, heap...))...)

	stream, err := Open(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	hdu, err := stream.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if hdu.Kind() != BinTable {
		t.Fatalf("got kind %v, want BinTable", hdu.Kind())
	}

	rows, err := hdu.Rows()
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if !rows.Next() {
		t.Fatalf("expected one row, got none (err=%v)", rows.Err())
	}
	var desc VLADescriptor
	if err := rows.Scan(&desc); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if desc.Count != 3 || desc.Offset != 0 {
		t.Fatalf("got descriptor %+v, want {3 0}", desc)
	}

	payload, err := rows.Heap(0, desc)
	if err != nil {
		t.Fatalf("Heap: %v", err)
	}
	got, ok := payload.([]float32)
	if !ok {
		t.Fatalf("got payload type %T, want []float32", payload)
	}
	want := []float32{1.0, 2.0, 3.0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("heap elem %d = %v, want %v", i, got[i], want[i])
		}
	}

	if rows.Next() {
		t.Fatalf("expected only one row")
	}
	if err := rows.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	next, err := stream.Next()
	if err != nil {
		t.Fatalf("Next (eof): %v", err)
	}
	if next != nil {
		t.Fatalf("expected end of stream")
	}
}
