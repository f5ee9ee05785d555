// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fitsio

import "fmt"

// IoError wraps an underlying read/seek failure, including premature EOF.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string { return fmt.Sprintf("fitsio: i/o failure during %s: %v", e.Op, e.Err) }
func (e *IoError) Unwrap() error { return e.Err }

// MalformedCardError reports a card violating the 80-byte/fixed-format rules.
// Fatal for the HDU currently being parsed.
type MalformedCardError struct {
	Reason string
}

func (e *MalformedCardError) Error() string { return fmt.Sprintf("fitsio: malformed card: %s", e.Reason) }

// MalformedHeaderError reports a missing or out-of-order mandatory card. Fatal.
type MalformedHeaderError struct {
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("fitsio: malformed header: %s", e.Reason)
}

// UnsupportedFeatureError is surfaced at the point a caller relies on a
// feature this library deliberately does not implement (HIERARCH, H-compress,
// PLiO, ZMASKCMP, writing FITS, ...).
type UnsupportedFeatureError struct {
	Feature string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("fitsio: unsupported feature: %s", e.Feature)
}

// OutOfRangeError reports a pixel index past image extent or a random-access
// seek past the data-unit end.
type OutOfRangeError struct {
	Reason string
}

func (e *OutOfRangeError) Error() string { return fmt.Sprintf("fitsio: out of range: %s", e.Reason) }

// DecompressionError reports an invalid tile algorithm parameter, a
// truncated bit stream, or a checksum mismatch during tile decompression.
type DecompressionError struct {
	Reason string
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("fitsio: decompression failure: %s", e.Reason)
}

// Warning is a non-fatal diagnostic. The header parser emits one for a
// numeric value card it cannot coerce and keeps as a raw string; tile
// decoding emits none, so trailing bytes after a tile stream are not
// reported as warnings. It never alters control flow; callers that care can
// drain it from the optional channel set with HduStream.Warnings.
type Warning struct {
	Message string
}

func (w *Warning) String() string { return w.Message }
