// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tile

import (
	"bytes"
	"testing"
)

func TestUnshuffleGZIP2(t *testing.T) {
	// three i16 elements: 0x0102, 0x0304, 0x0506, shuffled byte-position-wise
	// (all high bytes, then all low bytes).
	shuffled := []byte{0x01, 0x03, 0x05, 0x02, 0x04, 0x06}
	got := UnshuffleGZIP2(shuffled, 2, 3)
	want := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestUnshuffleGZIP2SingleByteElem(t *testing.T) {
	shuffled := []byte{10, 20, 30}
	got := UnshuffleGZIP2(shuffled, 1, 3)
	if !bytes.Equal(got, shuffled) {
		t.Fatalf("got %v, want %v (identity for elemSize=1)", got, shuffled)
	}
}
