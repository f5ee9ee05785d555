// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fitsio

import (
	"fmt"
	"strconv"
	"strings"
)

// ElemType is one of the six numeric pixel/field element types the core
// handles (spec §4.5/§4.6), plus the auxiliary kinds needed by binary-table
// columns (logical, char, complex); P/Q VLA descriptors are flagged on
// FieldForm rather than given an ElemType. ASCII-table field interpretation
// is explicitly out of scope (spec Non-goals); ASCII rows are exposed as raw
// bytes only.
type ElemType int

const (
	TUnknown ElemType = iota
	TByte             // u8   (BITPIX=8,  TFORM 'B')
	TInt16            // i16  (BITPIX=16, TFORM 'I')
	TInt32            // i32  (BITPIX=32, TFORM 'J')
	TInt64            // i64  (BITPIX=64, TFORM 'K')
	TFloat32          // f32  (BITPIX=-32, TFORM 'E')
	TFloat64          // f64  (BITPIX=-64, TFORM 'D')
	TLogical          // bool (TFORM 'L')
	TChar             // byte (TFORM 'A')
	TComplex64        // complex64  (TFORM 'C')
	TComplex128       // complex128 (TFORM 'M')
)

// Size returns the in-row byte size of one element of this type.
func (t ElemType) Size() int {
	switch t {
	case TByte, TLogical, TChar:
		return 1
	case TInt16:
		return 2
	case TInt32, TFloat32:
		return 4
	case TInt64, TFloat64, TComplex64:
		return 8
	case TComplex128:
		return 16
	default:
		return 0
	}
}

func (t ElemType) String() string {
	switch t {
	case TByte:
		return "u8"
	case TInt16:
		return "i16"
	case TInt32:
		return "i32"
	case TInt64:
		return "i64"
	case TFloat32:
		return "f32"
	case TFloat64:
		return "f64"
	case TLogical:
		return "bool"
	case TChar:
		return "char"
	case TComplex64:
		return "complex64"
	case TComplex128:
		return "complex128"
	default:
		return "unknown"
	}
}

// elemTypeFromBitpix implements spec §4.5's BITPIX mapping.
func elemTypeFromBitpix(bitpix int) (ElemType, error) {
	switch bitpix {
	case 8:
		return TByte, nil
	case 16:
		return TInt16, nil
	case 32:
		return TInt32, nil
	case 64:
		return TInt64, nil
	case -32:
		return TFloat32, nil
	case -64:
		return TFloat64, nil
	default:
		return TUnknown, &MalformedHeaderError{Reason: fmt.Sprintf("invalid BITPIX %d", bitpix)}
	}
}

// fitsFieldCode maps a TFORM type letter (spec §4.6 table) to an ElemType.
var fitsFieldCode = map[byte]ElemType{
	'L': TLogical,
	'B': TByte,
	'I': TInt16,
	'J': TInt32,
	'K': TInt64,
	'E': TFloat32,
	'D': TFloat64,
	'A': TChar,
	'C': TComplex64,
	'M': TComplex128,
}

// FieldForm is a parsed TFORMn descriptor (spec §4.6).
type FieldForm struct {
	Repeat int
	Elem   ElemType
	IsVLA  bool
	// Wide selects the 64-bit 'Q' descriptor over the 32-bit 'P' one.
	Wide bool
}

// InRowSize is the number of bytes this field occupies within a row: for
// fixed fields, Repeat*Elem.Size(); for VLA fields, the 8- or 16-byte
// descriptor itself.
func (f FieldForm) InRowSize() int {
	if f.IsVLA {
		if f.Wide {
			return 16
		}
		return 8
	}
	return f.Repeat * f.Elem.Size()
}

// parseTForm parses a binary-table TFORMi string: <repeat><type>[<extra>]
// (spec §4.6). Grounded on utils.go:typeFromForm's BINARY_TBL branch,
// trimmed to the element types spec.md names (ASCII-table interpretation,
// 'X' bit arrays, and 'V'/'U' variants used only by the teacher's encoder
// are dropped per spec's Non-goals/write-path removal).
func parseTForm(form string) (FieldForm, error) {
	j := strings.IndexAny(form, "PQABCDEIJKL")
	if j < 0 {
		return FieldForm{}, &MalformedHeaderError{Reason: fmt.Sprintf("invalid TFORM %q", form)}
	}

	repeat := 1
	if j > 0 {
		r, err := strconv.ParseInt(form[:j], 10, 32)
		if err != nil {
			return FieldForm{}, &MalformedHeaderError{Reason: fmt.Sprintf("invalid TFORM repeat count %q", form)}
		}
		repeat = int(r)
	}

	var vla, wide bool
	switch form[j] {
	case 'P':
		vla = true
		j++
	case 'Q':
		vla, wide = true, true
		j++
	}
	if j >= len(form) {
		return FieldForm{}, &MalformedHeaderError{Reason: fmt.Sprintf("TFORM %q missing element type", form)}
	}

	elem, ok := fitsFieldCode[form[j]]
	if !ok {
		return FieldForm{}, &MalformedHeaderError{Reason: fmt.Sprintf("TFORM %q: unknown element code %q", form, form[j])}
	}

	return FieldForm{Repeat: repeat, Elem: elem, IsVLA: vla, Wide: wide}, nil
}
