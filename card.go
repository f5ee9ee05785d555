// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fitsio

import (
	"bytes"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

const (
	blockSize = 2880
	cardSize  = 80
	keySize   = 8
)

// CardKind classifies the role a Card plays within a Header.
type CardKind int

const (
	// KindValue is a normal key=value card.
	KindValue CardKind = iota
	// KindCommentary is a COMMENT/HISTORY/blank-key card; Value is unset.
	KindCommentary
	// KindContinue is a CONTINUE card, already folded into the prior string value.
	KindContinue
	// KindEnd is the header-terminating END card.
	KindEnd
	// KindBlank is an all-space card, skipped by the assembler.
	KindBlank
)

// Value is the decoded value held by a Card: bool, string, int64, float64,
// complex128, big.Int, or nil (undefined/commentary).
type Value interface{}

// Card is one 80-byte FITS header record.
type Card struct {
	Name    string
	Value   Value
	Comment string
	Kind    CardKind
}

var (
	kHIERARCH = []byte("HIERARCH ")
	kCOMMENT  = []byte("COMMENT ")
	kCONTINUE = []byte("CONTINUE")
	kHISTORY  = []byte("HISTORY ")
	kEND      = []byte("END     ")
	kEMPTY    = bytes.Repeat([]byte(" "), cardSize)
)

// parseCard classifies an 80-byte card slice per spec §4.2.
// transliteration of CFITSIO's ffpsvc, restructured around the CardKind taxonomy.
func parseCard(bline []byte) (*Card, *Warning, error) {
	if len(bline) != cardSize {
		return nil, nil, &MalformedCardError{Reason: fmt.Sprintf("invalid card length %d", len(bline))}
	}

	if bytes.Equal(bline, kEMPTY) {
		return &Card{Kind: KindBlank}, nil, nil
	}

	var card Card
	valpos := 0
	keybeg := 0
	keyend := 0

	switch {
	case bytes.HasPrefix(bline, kHIERARCH):
		return nil, nil, &UnsupportedFeatureError{Feature: "HIERARCH"}

	case len(bline) < 9 ||
		bytes.HasPrefix(bline, kCOMMENT) ||
		bytes.HasPrefix(bline, kCONTINUE) ||
		bytes.HasPrefix(bline, kHISTORY) ||
		bytes.HasPrefix(bline, kEND) ||
		!bytes.HasPrefix(bline[8:], []byte("= ")):

		rest := strings.TrimRight(string(bline[8:]), " ")
		switch {
		case bytes.HasPrefix(bline, kCOMMENT):
			card.Name, card.Kind, card.Comment = "COMMENT", KindCommentary, rest
		case bytes.HasPrefix(bline, kHISTORY):
			card.Name, card.Kind, card.Comment = "HISTORY", KindCommentary, rest
		case bytes.HasPrefix(bline, kEND):
			card.Name, card.Kind = "END", KindEnd
		case bytes.HasPrefix(bline, kCONTINUE):
			str := strings.TrimSpace(string(bline[len(kCONTINUE):]))
			value, _, err := processString(str)
			if err != nil {
				return nil, nil, err
			}
			card.Name, card.Kind, card.Value = "CONTINUE", KindContinue, value
		default:
			card.Name, card.Kind, card.Comment = "", KindCommentary, rest
		}
		return &card, nil, nil

	default:
		valpos = 10
		keybeg = 0
		keyend = 8
	}

	card.Name = strings.TrimSpace(string(bline[keybeg:keyend]))
	if err := verifyCardName(card.Name); err != nil {
		return nil, nil, err
	}

	nblanks := 0
	for _, c := range bline[valpos:] {
		if c != ' ' {
			break
		}
		nblanks++
	}

	if nblanks+valpos == len(bline) {
		// absence of a value string legally means "undefined"
		return &card, nil, nil
	}

	i := valpos + nblanks
	var warn *Warning
	switch bline[i] {
	case '/':
		i++

	case '\'':
		str, idx, err := processString(string(bline[i:]))
		if err != nil {
			return nil, nil, err
		}
		card.Value = str
		i += idx

	case '(':
		idx := bytes.IndexByte(bline[i:], ')')
		if idx < 0 {
			return nil, nil, &MalformedCardError{Reason: fmt.Sprintf("complex value missing ')' (%q)", string(bline))}
		}
		var x, y float64
		str := strings.TrimSpace(string(bline[i : i+idx+1]))
		if _, err := fmt.Sscanf(str, "(%f,%f)", &x, &y); err != nil {
			return nil, nil, &MalformedCardError{Reason: fmt.Sprintf("invalid complex value (%q): %v", str, err)}
		}
		card.Value = complex(x, y)
		i += idx + 1

	default:
		v0 := bline[i]
		value := ""
		if valend := bytes.Index(bline[i:], []byte(" /")); valend < 0 {
			value = string(bline[i:])
		} else {
			value = string(bline[i : i+valend])
		}
		i += len(value)
		value = strings.TrimSpace(value)

		switch {
		case v0 == 'T':
			card.Value = true
		case v0 == 'F':
			card.Value = false
		case (v0 >= '0' && v0 <= '9') || v0 == '+' || v0 == '-':
			if strings.ContainsAny(value, ".DE") {
				norm := strings.Replace(value, "D", "E", 1)
				x, err := strconv.ParseFloat(norm, 64)
				if err != nil {
					card.Value = value
					warn = &Warning{Message: fmt.Sprintf("card %s: uncoercible float %q, kept as string", card.Name, value)}
				} else {
					card.Value = x
				}
			} else if x, err := strconv.ParseInt(value, 10, 64); err == nil {
				card.Value = x
			} else if big, ok := parseBigInt(value); ok {
				card.Value = big
			} else {
				card.Value = value
				warn = &Warning{Message: fmt.Sprintf("card %s: uncoercible integer %q, kept as string", card.Name, value)}
			}
		default:
			return nil, nil, &MalformedCardError{Reason: fmt.Sprintf("invalid card value (%q)", string(bline))}
		}
	}

	if idx := bytes.IndexByte(bline[i:], '/'); idx >= 0 {
		card.Comment = strings.TrimSpace(string(bline[i+idx+1:]))
	}

	return &card, warn, nil
}

func parseBigInt(value string) (big.Int, bool) {
	var x big.Int
	_, err := fmt.Sscanf(value, "%v", &x)
	if err != nil {
		return big.Int{}, false
	}
	return x, true
}

// processString decodes a FITS quoted-string value starting at s[0]=='\''.
// 3-state machine handling '' as an escaped literal quote.
func processString(s string) (string, int, error) {
	var buf bytes.Buffer

	state := 0
	for i, char := range s {
		quote := char == '\''
		switch state {
		case 0:
			if !quote {
				return "", i, &MalformedCardError{Reason: fmt.Sprintf("string does not start with a quote (%q)", s)}
			}
			state = 1
		case 1:
			if quote {
				state = 2
			} else {
				buf.WriteRune(char)
			}
		case 2:
			if quote {
				buf.WriteRune(char)
				state = 1
			} else {
				// trailing spaces before the closing quote are significant;
				// those after it (already excluded, we stopped at state 2) are not.
				return buf.String(), i, nil
			}
		}
	}
	if len(s) > 0 && s[len(s)-1] == '\'' {
		return buf.String(), len(s), nil
	}
	return "", 0, &MalformedCardError{Reason: fmt.Sprintf("string ends prematurely (%q)", s)}
}

// isContinueAnchor reports whether a string Card ends with the CONTINUE '&'
// marker, ignoring any (significant-but-irrelevant-here) trailing spaces
// between the '&' and the closing quote.
func isContinueAnchor(s string) bool {
	return strings.HasSuffix(strings.TrimRight(s, " "), "&")
}

// trimContinueAnchor drops the trailing '&' (and any spaces after it, before
// the closing quote) so the continuation's text can be appended directly.
func trimContinueAnchor(s string) string {
	t := strings.TrimRight(s, " ")
	return strings.TrimSuffix(t, "&")
}

// verifyCardName enforces the FITS keyword character set: [A-Z0-9_-], left-justified.
func verifyCardName(name string) error {
	for idx, c := range name {
		switch {
		case (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_':
		default:
			return &MalformedCardError{Reason: fmt.Sprintf("illegal character %q in keyword %q (idx=%d)", c, name, idx)}
		}
	}
	return nil
}
