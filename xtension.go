// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fitsio

import (
	"fmt"
	"strings"
)

// Xtension is the typed view of a header's mandatory cards (spec §3/§4.4).
type Xtension struct {
	Kind    HDUKind
	Bitpix  int
	Axes    []int // NAXISn, fastest-varying first
	Pcount  int64 // heap size for BINTABLE; 0 otherwise
	Gcount  int64
	Tfields int      // BINTABLE/TABLE only
	Tform   []string // TFORM1..TFORMn
	Ttype   []string // TTYPE1..TTYPEn
	Tbcol   []int64  // TABLE only

	// DataBytes is the unpadded data-unit length; PaddedBytes is the next
	// multiple of 2880 (spec §3's Xtension-descriptor invariant).
	DataBytes   int64
	PaddedBytes int64
}

// classify determines the HDU kind and builds its Xtension descriptor from
// an assembled Header (the former hduTypeFrom in decode.go, generalized).
func classify(hdr *Header) (*Xtension, error) {
	xt := &Xtension{Gcount: 1}

	switch {
	case hdr.Len() > 0 && hdr.cards[0].Name == "SIMPLE":
		xt.Kind = Primary
	case hdr.Len() > 0 && hdr.cards[0].Name == "XTENSION":
		switch s := strings.TrimRight(hdr.String("XTENSION"), " "); s {
		case "IMAGE":
			xt.Kind = ImageHDU
		case "TABLE":
			xt.Kind = AsciiTable
		case "BINTABLE":
			xt.Kind = BinTable
		default:
			return nil, &MalformedHeaderError{Reason: fmt.Sprintf("unknown XTENSION kind %q", s)}
		}
	default:
		return nil, &MalformedHeaderError{Reason: "missing SIMPLE or XTENSION card"}
	}

	if c := hdr.Get("BITPIX"); c != nil {
		xt.Bitpix = int(hdr.Int("BITPIX"))
	} else {
		return nil, &MalformedHeaderError{Reason: "missing BITPIX"}
	}

	naxis := int(hdr.Int("NAXIS"))
	xt.Axes = make([]int, naxis)
	for i := 0; i < naxis; i++ {
		xt.Axes[i] = int(hdr.Int(fmt.Sprintf("NAXIS%d", i+1)))
	}

	if xt.Kind != Primary {
		xt.Pcount = hdr.Int("PCOUNT")
		if c := hdr.Get("GCOUNT"); c != nil {
			xt.Gcount = hdr.Int("GCOUNT")
		}
	}

	if xt.Kind == BinTable || xt.Kind == AsciiTable {
		xt.Tfields = int(hdr.Int("TFIELDS"))
		xt.Tform = make([]string, xt.Tfields)
		xt.Ttype = make([]string, xt.Tfields)
		for i := 0; i < xt.Tfields; i++ {
			xt.Tform[i] = hdr.String(fmt.Sprintf("TFORM%d", i+1))
			xt.Ttype[i] = hdr.String(fmt.Sprintf("TTYPE%d", i+1))
		}
		if xt.Kind == AsciiTable {
			xt.Tbcol = make([]int64, xt.Tfields)
			for i := 0; i < xt.Tfields; i++ {
				xt.Tbcol[i] = hdr.Int(fmt.Sprintf("TBCOL%d", i+1))
			}
		}
	}

	xt.DataBytes = dataUnitBytes(xt)
	xt.PaddedBytes = alignBlock(xt.DataBytes)
	return xt, nil
}

// dataUnitBytes implements spec §3/§4.4's byte-count formula:
//
//	|BITPIX|/8 · GCOUNT · (PCOUNT + Π NAXISn)   when NAXIS > 0, else 0
func dataUnitBytes(xt *Xtension) int64 {
	if len(xt.Axes) == 0 {
		return 0
	}
	pixsz := int64(xt.Bitpix)
	if pixsz < 0 {
		pixsz = -pixsz
	}
	pixsz /= 8

	nelem := int64(1)
	for _, n := range xt.Axes {
		nelem *= int64(n)
	}
	gcount := xt.Gcount
	if gcount == 0 {
		gcount = 1
	}
	return pixsz * gcount * (xt.Pcount + nelem)
}

// alignBlock rounds sz up to the next multiple of 2880.
func alignBlock(sz int64) int64 {
	return sz + padBlock(sz)
}

// padBlock returns the padding needed to align sz to a 2880-byte block.
func padBlock(sz int64) int64 {
	return (blockSize - (sz % blockSize)) % blockSize
}

// NumberOfElements returns Π NAXISn (0 if NAXIS==0).
func (xt *Xtension) NumberOfElements() int64 {
	if len(xt.Axes) == 0 {
		return 0
	}
	n := int64(1)
	for _, a := range xt.Axes {
		n *= int64(a)
	}
	return n
}

// RowSize returns NAXIS1 (binary/ASCII table row byte length), or 0 if the
// xtension has fewer than one axis.
func (xt *Xtension) RowSize() int64 {
	if len(xt.Axes) == 0 {
		return 0
	}
	return int64(xt.Axes[0])
}

// NumRows returns NAXIS2 (binary/ASCII table row count), or 0.
func (xt *Xtension) NumRows() int64 {
	if len(xt.Axes) < 2 {
		return 0
	}
	return int64(xt.Axes[1])
}
