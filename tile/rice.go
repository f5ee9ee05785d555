// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tile

import "fmt"

// bitReader pulls MSB-first bits out of a byte slice, the packing order the
// RICE tile convention bit-streams its Golomb codes in.
//
// Grounded on the MSB-first bit-reader shape in
// thebagchi-asn1c-go/lib/bitbuffer/bitbuffer.go and the h264 NAL bitstream
// readers used alongside pion/rtp; RICE has no ready-made decoder anywhere
// in the example pack, so this one is original, built in that idiom.
type bitReader struct {
	data    []byte
	bytePos int
	bitPos  uint // bits already consumed from data[bytePos], MSB-first
}

func newBitReader(data []byte) *bitReader {
	return &bitReader{data: data}
}

func (r *bitReader) readBits(n uint) (uint64, error) {
	var v uint64
	for n > 0 {
		if r.bytePos >= len(r.data) {
			return 0, fmt.Errorf("tile: rice bit stream exhausted")
		}
		avail := 8 - r.bitPos
		take := n
		if take > avail {
			take = avail
		}
		shift := avail - take
		mask := byte((1 << take) - 1)
		bits := (r.data[r.bytePos] >> shift) & mask
		v = (v << take) | uint64(bits)
		r.bitPos += take
		n -= take
		if r.bitPos == 8 {
			r.bitPos = 0
			r.bytePos++
		}
	}
	return v, nil
}

// readUnary counts zero bits up to and including the terminating one bit,
// the Golomb-Rice quotient prefix.
func (r *bitReader) readUnary() (int, error) {
	count := 0
	for {
		bit, err := r.readBits(1)
		if err != nil {
			return 0, err
		}
		if bit == 1 {
			return count, nil
		}
		count++
	}
}

// ceilLog2 returns the smallest b with 2^b >= n.
func ceilLog2(n int) uint {
	var b uint
	for (1 << b) < n {
		b++
	}
	return b
}

func signExtend(v uint64, bits uint) int64 {
	shift := 64 - bits
	return int64(v<<shift) >> shift
}

func zigzagDecode(n uint64) int64 {
	return int64(n>>1) ^ -int64(n&1)
}

// DecodeRICE decodes nelem signed values from a RICE-coded tile (spec §4.7):
// the first value is a raw bytePix-wide big-endian element; each following
// block of up to blockSize values starts with a ceilLog2(8*bytePix)-bit
// k-field, either the Golomb parameter for the block's differences or the
// reserved escape value (2^kbits - 1) marking a literal block of raw
// bytePix-wide elements (used when a block would not compress).
func DecodeRICE(data []byte, nelem, blockSize, bytePix int) ([]int64, error) {
	if nelem == 0 {
		return nil, nil
	}
	if blockSize <= 0 {
		blockSize = 32
	}
	br := newBitReader(data)
	width := uint(8 * bytePix)
	kbits := ceilLog2(int(width))
	escape := uint64(1)<<kbits - 1

	values := make([]int64, nelem)
	seed, err := br.readBits(width)
	if err != nil {
		return nil, fmt.Errorf("tile: rice seed: %w", err)
	}
	values[0] = signExtend(seed, width)
	cur := values[0]

	idx := 1
	for idx < nelem {
		n := blockSize
		if idx+n > nelem {
			n = nelem - idx
		}
		k, err := br.readBits(kbits)
		if err != nil {
			return nil, fmt.Errorf("tile: rice k-field: %w", err)
		}
		if k == escape {
			for i := 0; i < n; i++ {
				raw, err := br.readBits(width)
				if err != nil {
					return nil, fmt.Errorf("tile: rice literal block: %w", err)
				}
				cur = signExtend(raw, width)
				values[idx] = cur
				idx++
			}
			continue
		}
		for i := 0; i < n; i++ {
			q, err := br.readUnary()
			if err != nil {
				return nil, fmt.Errorf("tile: rice quotient: %w", err)
			}
			rem, err := br.readBits(uint(k))
			if err != nil {
				return nil, fmt.Errorf("tile: rice remainder: %w", err)
			}
			code := uint64(q)<<k | rem
			cur += zigzagDecode(code)
			values[idx] = cur
			idx++
		}
	}
	return values, nil
}

// Dither reconstructs the subtractive-dithering sequence used to quantize
// float-BITPIX tiles (ZQUANTIZ), per the tiled-image convention's documented
// Park-Miller minimal-standard generator: r_{i+1} = (a*r_i + c) mod m with
// a=16807, c=0, m=2^31-1. These constants are copied verbatim from the
// registered convention, not re-derived (spec §9).
type Dither struct {
	r int64
}

const (
	ditherA = 16807
	ditherC = 0
	ditherM = 2147483647 // 2^31 - 1
)

// NewDither seeds the generator for tile number tileIndex (1-based), per
// the convention's seed = (ZDITHER0 + tileIndex - 1) mod 10000.
func NewDither(zdither0 int64, tileIndex int) *Dither {
	seed := (zdither0 + int64(tileIndex) - 1) % 10000
	if seed <= 0 {
		seed += ditherM - 1
	}
	return &Dither{r: seed}
}

// Next returns the next dither offset in [0, 1).
func (d *Dither) Next() float64 {
	d.r = (ditherA*d.r + ditherC) % ditherM
	if d.r < 0 {
		d.r += ditherM
	}
	return float64(d.r) / float64(ditherM)
}
