// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fitsio

import (
	"bytes"
	"testing"
)

func TestAssembleHeaderPrimary(t *testing.T) {
	raw := buildHeader(
		mkCard("SIMPLE", "T"),
		mkCard("BITPIX", "8"),
		mkCard("NAXIS", "1"),
		mkCard("NAXIS1", "6"),
	)
	br := newBlockReader(bytes.NewReader(raw))
	hdr, eof, err := assembleHeader(br, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eof {
		t.Fatalf("unexpected clean-eof signal")
	}
	if !hdr.Bool("SIMPLE") {
		t.Fatalf("expected SIMPLE=T")
	}
	if hdr.Int("NAXIS1") != 6 {
		t.Fatalf("got NAXIS1=%d, want 6", hdr.Int("NAXIS1"))
	}
}

// TestAssembleHeaderContinueFolding covers spec scenario S2: a long-string
// split across an anchoring '&' value and a CONTINUE card folds into one
// logical string value.
func TestAssembleHeaderContinueFolding(t *testing.T) {
	raw := buildHeader(
		mkCard("SIMPLE", "T"),
		mkCard("BITPIX", "8"),
		mkCard("NAXIS", "0"),
		mkCard("NAME", "'abcdefgh&'"),
		mkContinueCard("'ijkl    '"),
	)
	br := newBlockReader(bytes.NewReader(raw))
	hdr, _, err := assembleHeader(br, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := hdr.String("NAME"); got != "abcdefghijkl" {
		t.Fatalf("got NAME=%q, want %q", got, "abcdefghijkl")
	}
	// the folded NAME card must still be reachable through the key index
	if n := 0; hdr.Index("NAME") < 0 {
		_ = n
		t.Fatalf("NAME card missing from index")
	}
}

func TestAssembleHeaderMissingMandatory(t *testing.T) {
	raw := buildHeader(
		mkCard("SIMPLE", "T"),
		mkCard("NAXIS", "0"), // BITPIX missing
	)
	br := newBlockReader(bytes.NewReader(raw))
	_, _, err := assembleHeader(br, nil)
	if _, ok := err.(*MalformedHeaderError); !ok {
		t.Fatalf("got err %v, want MalformedHeaderError", err)
	}
}

func TestAssembleHeaderSimpleNotT(t *testing.T) {
	raw := buildHeader(
		mkCard("SIMPLE", "F"),
		mkCard("BITPIX", "8"),
		mkCard("NAXIS", "0"),
	)
	br := newBlockReader(bytes.NewReader(raw))
	_, _, err := assembleHeader(br, nil)
	if _, ok := err.(*MalformedHeaderError); !ok {
		t.Fatalf("got err %v, want MalformedHeaderError", err)
	}
}

// TestAssembleHeaderNoEnd covers the open-question decision that a header
// lacking an END card, even if the stream happens to end on a block
// boundary, is a fatal error rather than a silently-accepted header.
func TestAssembleHeaderNoEnd(t *testing.T) {
	var buf []byte
	buf = append(buf, mkCard("SIMPLE", "T")...)
	buf = append(buf, mkCard("BITPIX", "8")...)
	buf = append(buf, mkCard("NAXIS", "0")...)
	buf = padBlockBytes(buf, ' ') // pad with blank cards, no END, but block-aligned

	br := newBlockReader(bytes.NewReader(buf))
	_, _, err := assembleHeader(br, nil)
	if err == nil {
		t.Fatalf("expected fatal error for a header with no END card")
	}
}

func TestAssembleHeaderCleanEOFBetweenHDUs(t *testing.T) {
	br := newBlockReader(bytes.NewReader(nil))
	hdr, eof, err := assembleHeader(br, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eof || hdr != nil {
		t.Fatalf("got hdr=%v eof=%v, want nil,true", hdr, eof)
	}
}

func TestAssembleHeaderExtensionBinTable(t *testing.T) {
	raw := buildHeader(
		mkCard("XTENSION", "'BINTABLE'"),
		mkCard("BITPIX", "8"),
		mkCard("NAXIS", "2"),
		mkCard("NAXIS1", "4"),
		mkCard("NAXIS2", "1"),
		mkCard("PCOUNT", "0"),
		mkCard("GCOUNT", "1"),
		mkCard("TFIELDS", "1"),
		mkCard("TFORM1", "'1J'"),
	)
	br := newBlockReader(bytes.NewReader(raw))
	hdr, _, err := assembleHeader(br, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hdr.String("XTENSION") != "BINTABLE" {
		t.Fatalf("got XTENSION=%q", hdr.String("XTENSION"))
	}
}
