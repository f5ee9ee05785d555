// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fitsio

import (
	"fmt"
	"strings"
)

// HDUKind is the kind of Header-Data Unit, determined from its mandatory cards.
type HDUKind int

const (
	// Primary is the mandatory first HDU of a file.
	Primary HDUKind = iota
	// ImageHDU is an IMAGE extension.
	ImageHDU
	// BinTable is a BINTABLE extension.
	BinTable
	// AsciiTable is a TABLE extension.
	AsciiTable
)

func (k HDUKind) String() string {
	switch k {
	case Primary:
		return "PRIMARY"
	case ImageHDU:
		return "IMAGE"
	case BinTable:
		return "BINTABLE"
	case AsciiTable:
		return "TABLE"
	default:
		return fmt.Sprintf("HDUKind(%d)", int(k))
	}
}

// Header is the ordered card set of one HDU (spec §3/§4.3).
type Header struct {
	cards []Card
	index map[string]int // first value-card occurrence, by name
}

// newHeader wraps an already-validated, already-CONTINUE-folded card slice.
func newHeader(cards []Card) *Header {
	hdr := &Header{cards: cards, index: make(map[string]int, len(cards))}
	for i := range hdr.cards {
		c := &hdr.cards[i]
		if c.Kind != KindValue {
			continue
		}
		if _, dup := hdr.index[c.Name]; !dup {
			hdr.index[c.Name] = i
		}
	}
	return hdr
}

// Cards returns every card in file order, including commentary/blank/END cards.
func (h *Header) Cards() []Card { return h.cards }

// Card returns the i-th card, preserving original file order. Panics if i is
// out of range, as does slice indexing.
func (h *Header) Card(i int) *Card { return &h.cards[i] }

// Len returns the number of cards in the header.
func (h *Header) Len() int { return len(h.cards) }

// Get returns the first value-card with name n, or nil.
func (h *Header) Get(n string) *Card {
	i, ok := h.index[n]
	if !ok {
		return nil
	}
	return &h.cards[i]
}

// Index returns the card-order index of the first value-card named n, or -1.
func (h *Header) Index(n string) int {
	i, ok := h.index[n]
	if !ok {
		return -1
	}
	return i
}

// Has reports whether a value-card named n is present.
func (h *Header) Has(n string) bool {
	_, ok := h.index[n]
	return ok
}

// String returns the string value of card n, or "" if absent or not a string.
func (h *Header) String(n string) string {
	c := h.Get(n)
	if c == nil {
		return ""
	}
	s, _ := c.Value.(string)
	return s
}

// Int returns the integer value of card n, or 0 if absent or not numeric.
func (h *Header) Int(n string) int64 {
	c := h.Get(n)
	if c == nil {
		return 0
	}
	switch v := c.Value.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

// Float returns the floating value of card n, or 0 if absent.
func (h *Header) Float(n string) float64 {
	c := h.Get(n)
	if c == nil {
		return 0
	}
	switch v := c.Value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

// Bool returns the logical value of card n.
func (h *Header) Bool(n string) bool {
	c := h.Get(n)
	if c == nil {
		return false
	}
	b, _ := c.Value.(bool)
	return b
}

// assembleHeader reads cards from a blockReader until END, folding CONTINUE
// chains and validating mandatory-card ordering (spec §4.1/§4.2/§4.3).
//
// Grounded on decode.go:streamDecoder.DecodeHDU's block/card loop, split out
// of the (now eager) Decoder into the header-only step the HDU Stream Engine
// drives one step at a time.
func assembleHeader(br *blockReader, warn func(*Warning)) (*Header, bool, error) {
	cards := make([]Card, 0, 36)
	sawEnd := false

	for !sawEnd {
		line, state, err := br.nextCard()
		if err != nil {
			return nil, false, err
		}
		switch state {
		case cardEndOfStream:
			if len(cards) == 0 {
				return nil, true, nil // clean EOF between HDUs
			}
			return nil, false, &MalformedHeaderError{Reason: "stream ended before END card"}
		case cardEndOfBlock:
			continue
		}

		card, w, err := parseCard(line)
		if err != nil {
			return nil, false, err
		}
		if w != nil && warn != nil {
			warn(w)
		}

		switch card.Kind {
		case KindBlank:
			continue
		case KindContinue:
			if len(cards) == 0 {
				return nil, false, &MalformedHeaderError{Reason: "CONTINUE with no preceding card"}
			}
			last := &cards[len(cards)-1]
			prev, ok := last.Value.(string)
			if !ok || !isContinueAnchor(prev) {
				return nil, false, &MalformedHeaderError{Reason: "CONTINUE without an anchoring '&' string"}
			}
			// A continuation segment's trailing blanks are padding up to the
			// closing quote, not part of the logical string (spec §4.2's
			// CONTINUE convention); only an explicit '&' carries meaning past
			// this segment, so trim them before appending.
			seg := strings.TrimRight(card.Value.(string), " ")
			last.Value = trimContinueAnchor(prev) + seg
			continue
		case KindEnd:
			cards = append(cards, *card)
			sawEnd = true
		default:
			cards = append(cards, *card)
		}
	}

	// END rarely lands on the last card of its block; drain the remaining
	// padding cards so the data unit starts at the next 2880-byte boundary
	// (spec §4.1), mirroring decode.go's whole-block read loop.
	for {
		_, state, err := br.nextCard()
		if err != nil {
			return nil, false, err
		}
		if state != cardOK {
			break
		}
	}

	hdr := newHeader(cards)
	if err := validateMandatory(hdr); err != nil {
		return nil, false, err
	}
	return hdr, false, nil
}

// validateMandatory enforces spec §4.3's mandatory-card-order rules.
func validateMandatory(hdr *Header) error {
	want := func(pos int, name string) error {
		if pos >= len(hdr.cards) || hdr.cards[pos].Name != name {
			return &MalformedHeaderError{Reason: fmt.Sprintf("expected %s at card %d", name, pos)}
		}
		return nil
	}

	primary := len(hdr.cards) > 0 && hdr.cards[0].Name == "SIMPLE"
	extension := len(hdr.cards) > 0 && hdr.cards[0].Name == "XTENSION"

	switch {
	case primary:
		if v, _ := hdr.cards[0].Value.(bool); !v {
			return &MalformedHeaderError{Reason: "SIMPLE is not T"}
		}
		if err := want(1, "BITPIX"); err != nil {
			return err
		}
		if err := want(2, "NAXIS"); err != nil {
			return err
		}
		return validateNaxisRun(hdr, 3)

	case extension:
		if err := want(1, "BITPIX"); err != nil {
			return err
		}
		if err := want(2, "NAXIS"); err != nil {
			return err
		}
		naxis := int(hdr.Int("NAXIS"))
		pos := 3 + naxis
		if err := validateNaxisRun(hdr, 3); err != nil {
			return err
		}
		if err := want(pos, "PCOUNT"); err != nil {
			return err
		}
		if err := want(pos+1, "GCOUNT"); err != nil {
			return err
		}
		if xt := hdr.String("XTENSION"); xt == "BINTABLE" {
			if err := want(pos+2, "TFIELDS"); err != nil {
				return err
			}
			tfields := int(hdr.Int("TFIELDS"))
			for i := 0; i < tfields; i++ {
				if err := want(pos+3+i, fmt.Sprintf("TFORM%d", i+1)); err != nil {
					return err
				}
			}
		}

	default:
		return &MalformedHeaderError{Reason: "missing SIMPLE or XTENSION card"}
	}

	return nil
}

func validateNaxisRun(hdr *Header, start int) error {
	naxis := int(hdr.Int("NAXIS"))
	for i := 0; i < naxis; i++ {
		pos := start + i
		name := fmt.Sprintf("NAXIS%d", i+1)
		if pos >= len(hdr.cards) || hdr.cards[pos].Name != name {
			return &MalformedHeaderError{Reason: fmt.Sprintf("expected %s at card %d", name, pos)}
		}
	}
	return nil
}
