// Copyright 2015 The astrogo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fitsio

import (
	"reflect"
	"testing"
)

func TestParseCardBlank(t *testing.T) {
	card, warn, err := parseCard(mkBlank())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if warn != nil {
		t.Fatalf("unexpected warning: %v", warn)
	}
	if card.Kind != KindBlank {
		t.Fatalf("got kind %v, want KindBlank", card.Kind)
	}
}

func TestParseCardEnd(t *testing.T) {
	card, _, err := parseCard(mkEnd())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Kind != KindEnd || card.Name != "END" {
		t.Fatalf("got %+v, want END card", card)
	}
}

func TestParseCardLogical(t *testing.T) {
	card, _, err := parseCard(mkCard("SIMPLE", "T / primary"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Name != "SIMPLE" {
		t.Fatalf("got name %q, want SIMPLE", card.Name)
	}
	if v, ok := card.Value.(bool); !ok || !v {
		t.Fatalf("got value %#v, want true", card.Value)
	}
	if card.Comment != "primary" {
		t.Fatalf("got comment %q, want %q", card.Comment, "primary")
	}
}

func TestParseCardInteger(t *testing.T) {
	card, _, err := parseCard(mkCard("NAXIS1", "3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := card.Value.(int64); !ok || v != 3 {
		t.Fatalf("got value %#v, want int64(3)", card.Value)
	}
}

func TestParseCardFloatDExponent(t *testing.T) {
	card, _, err := parseCard(mkCard("EXPTIME", "1.5D+02"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := card.Value.(float64)
	if !ok || v != 150.0 {
		t.Fatalf("got value %#v, want float64(150)", card.Value)
	}
}

func TestParseCardString(t *testing.T) {
	card, _, err := parseCard(mkCard("OBJECT", "'M51      '"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Value != "M51      " {
		t.Fatalf("got value %q, want trailing-space-preserved string", card.Value)
	}
}

func TestParseCardStringEscapedQuote(t *testing.T) {
	card, _, err := parseCard(mkCard("NOTE", "'it''s'"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Value != "it's" {
		t.Fatalf("got value %q, want %q", card.Value, "it's")
	}
}

func TestParseCardCommentary(t *testing.T) {
	card, _, err := parseCard(mkCard("COMMENT", "free text")[0:80])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Kind != KindCommentary || card.Name != "COMMENT" {
		t.Fatalf("got %+v, want commentary COMMENT card", card)
	}
}

func TestParseCardHierarchUnsupported(t *testing.T) {
	b := make([]byte, cardSize)
	for i := range b {
		b[i] = ' '
	}
	copy(b, "HIERARCH ESO DET ID= 1")
	_, _, err := parseCard(b)
	var uf *UnsupportedFeatureError
	if !asUnsupported(err, &uf) {
		t.Fatalf("got err %v, want UnsupportedFeatureError", err)
	}
}

func asUnsupported(err error, target **UnsupportedFeatureError) bool {
	e, ok := err.(*UnsupportedFeatureError)
	if ok {
		*target = e
	}
	return ok
}

func TestParseCardInvalidLength(t *testing.T) {
	_, _, err := parseCard([]byte("too short"))
	if _, ok := err.(*MalformedCardError); !ok {
		t.Fatalf("got err %v, want MalformedCardError", err)
	}
}

func TestVerifyCardName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"NAXIS1", true},
		{"MY-KEY", true},
		{"MY_KEY", true},
		{"bad key", false},
	}
	for _, tc := range tests {
		err := verifyCardName(tc.name)
		if (err == nil) != tc.ok {
			t.Errorf("verifyCardName(%q): got err=%v, want ok=%v", tc.name, err, tc.ok)
		}
	}
}

func TestIsContinueAnchor(t *testing.T) {
	if !isContinueAnchor("abcdefgh&") {
		t.Fatalf("expected anchor to be detected")
	}
	if !isContinueAnchor("abcdefgh&   ") {
		t.Fatalf("expected anchor to be detected through trailing spaces")
	}
	if isContinueAnchor("abcdefgh") {
		t.Fatalf("expected no anchor")
	}
}

func TestTrimContinueAnchor(t *testing.T) {
	got := trimContinueAnchor("abcdefgh&   ")
	if got != "abcdefgh" {
		t.Fatalf("got %q, want %q", got, "abcdefgh")
	}
}

func TestParseTForm(t *testing.T) {
	tests := []struct {
		form string
		want FieldForm
	}{
		{"1J", FieldForm{Repeat: 1, Elem: TInt32}},
		{"20A", FieldForm{Repeat: 20, Elem: TChar}},
		{"1PE(3)", FieldForm{Repeat: 1, Elem: TFloat32, IsVLA: true}},
		{"1QB(128)", FieldForm{Repeat: 1, Elem: TByte, IsVLA: true, Wide: true}},
	}
	for _, tc := range tests {
		got, err := parseTForm(tc.form)
		if err != nil {
			t.Fatalf("parseTForm(%q): %v", tc.form, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("parseTForm(%q) = %+v, want %+v", tc.form, got, tc.want)
		}
	}
}
