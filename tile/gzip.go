// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tile

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// DecodeGZIP inflates a GZIP (ZCMPTYPE=GZIP_1) tile: standard RFC 1952 gzip
// framing around a DEFLATE stream, decoded straight into the tile's
// big-endian element buffer (spec §4.7).
//
// Uses github.com/klauspost/compress/gzip rather than stdlib compress/gzip
// (drop-in compatible Reader, faster pure-Go inflate); see the grounding
// ledger for why this is the one stdlib-codec swap in this module.
func DecodeGZIP(compressed []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("tile: gzip header: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("tile: gzip inflate: %w", err)
	}
	return out, nil
}
