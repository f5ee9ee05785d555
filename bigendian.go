// Copyright 2017 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fitsio

import (
	"encoding/binary"
	"math"
)

// Grounded on binary.go's readI16/readI32/readI64/readF32/readF64 scalar
// helpers; extended with u8 (trivial) and bulk-slice variants, since the
// streaming image/table readers decode many elements per call rather than
// one struct field at a time.

func beU8(b []byte) uint8    { return b[0] }
func beI16(b []byte) int16   { return int16(binary.BigEndian.Uint16(b)) }
func beI32(b []byte) int32   { return int32(binary.BigEndian.Uint32(b)) }
func beI64(b []byte) int64   { return int64(binary.BigEndian.Uint64(b)) }
func beF32(b []byte) float32 { return math.Float32frombits(binary.BigEndian.Uint32(b)) }
func beF64(b []byte) float64 { return math.Float64frombits(binary.BigEndian.Uint64(b)) }

func beU16(b []byte) uint16 { return binary.BigEndian.Uint16(b) }
func beU32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }
func beU64(b []byte) uint64 { return binary.BigEndian.Uint64(b) }

func putBeI32(b []byte, v int32) { binary.BigEndian.PutUint32(b, uint32(v)) }
func putBeI64(b []byte, v int64) { binary.BigEndian.PutUint64(b, uint64(v)) }
func putBeF32(b []byte, v float32) { binary.BigEndian.PutUint32(b, math.Float32bits(v)) }
func putBeF64(b []byte, v float64) { binary.BigEndian.PutUint64(b, math.Float64bits(v)) }
