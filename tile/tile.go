// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tile implements the three tile-compression algorithms named by the
// FITS tiled-image convention (GZIP, GZIP_2, RICE): decoding one compressed
// tile's bytes into a row-major big-endian pixel buffer (spec §4.7). It has
// no dependency on the rest of this module — a tile is just a byte blob plus
// a few integer parameters — so the HDU/table/header machinery stays free of
// the compression concern and vice versa.
package tile

import "fmt"

// Algorithm identifies which tile codec ZCMPTYPE names.
type Algorithm int

const (
	GZIP Algorithm = iota
	GZIP2
	RICE
)

// ParseAlgorithm maps a ZCMPTYPE header string to an Algorithm. H-compress
// and PLiO are recognized only to report them as unsupported (spec
// Non-goals), never decoded.
func ParseAlgorithm(zcmptype string) (Algorithm, error) {
	switch zcmptype {
	case "GZIP_1":
		return GZIP, nil
	case "GZIP_2":
		return GZIP2, nil
	case "RICE_1", "RICE_ONE":
		return RICE, nil
	case "HCOMPRESS_1":
		return 0, fmt.Errorf("tile: HCOMPRESS_1 is not implemented")
	case "PLIO_1":
		return 0, fmt.Errorf("tile: PLIO_1 is not implemented")
	default:
		return 0, fmt.Errorf("tile: unknown ZCMPTYPE %q", zcmptype)
	}
}

// RiceParams holds the BLOCKSIZE/BYTEPIX pair a RICE tile is coded with
// (ZNAME/ZVAL pairs in the header; BLOCKSIZE defaults to 32).
type RiceParams struct {
	BlockSize int
	BytePix   int
}

// Decode decompresses one tile's compressed bytes into nelem big-endian
// elements of elemSize bytes each (row-major within the tile).
func Decode(algo Algorithm, compressed []byte, nelem, elemSize int, rice RiceParams) ([]byte, error) {
	switch algo {
	case GZIP:
		return DecodeGZIP(compressed)
	case GZIP2:
		raw, err := DecodeGZIP(compressed)
		if err != nil {
			return nil, err
		}
		return UnshuffleGZIP2(raw, elemSize, nelem), nil
	case RICE:
		values, err := DecodeRICE(compressed, nelem, rice.BlockSize, rice.BytePix)
		if err != nil {
			return nil, err
		}
		return packBigEndian(values, elemSize), nil
	default:
		return nil, fmt.Errorf("tile: unknown algorithm %d", algo)
	}
}

func packBigEndian(values []int64, elemSize int) []byte {
	out := make([]byte, len(values)*elemSize)
	for i, v := range values {
		beg := i * elemSize
		for b := elemSize - 1; b >= 0; b-- {
			out[beg+b] = byte(v)
			v >>= 8
		}
	}
	return out
}
