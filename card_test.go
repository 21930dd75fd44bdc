// Card model tests
//
// Copyright (c) 2025  The go-gamba authors
//
// This file is part of go-gamba.
//
// go-gamba is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-gamba is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-gamba. If not, see
// <http://www.gnu.org/licenses/>

package gamba

import "testing"

func TestParseCard(t *testing.T) {
	for _, tt := range []struct {
		in   string
		card Card
	}{
		{"AH", Card{Ace, Hearts}},
		{"2D", Card{Two, Diamonds}},
		{"10S", Card{Ten, Spades}},
		{"JC", Card{Jack, Clubs}},
		{"QH", Card{Queen, Hearts}},
		{"KS", Card{King, Spades}},
	} {
		c, err := ParseCard(tt.in)
		if err != nil {
			t.Errorf("ParseCard(%q) failed: %v", tt.in, err)
			continue
		}
		if c != tt.card {
			t.Errorf("ParseCard(%q) = %v, want %v", tt.in, c, tt.card)
		}
		if c.String() != tt.in {
			t.Errorf("String() = %q, want %q", c.String(), tt.in)
		}
	}

	for _, in := range []string{"", "H", "1S", "0D", "11C", "AX", "10", "ah"} {
		if c, err := ParseCard(in); err == nil {
			t.Errorf("ParseCard(%q) = %v, want error", in, c)
		}
	}
}

func TestParseCards(t *testing.T) {
	cs, err := ParseCards("AH, 10S ,KD")
	if err != nil {
		t.Fatal(err)
	}
	if len(cs) != 3 || cs[1] != (Card{Ten, Spades}) {
		t.Errorf("ParseCards = %v", cs)
	}
	if got := FormatCards(cs); got != "AH,10S,KD" {
		t.Errorf("FormatCards = %q", got)
	}

	if cs, err := ParseCards(""); err != nil || cs != nil {
		t.Errorf("empty list = %v, %v", cs, err)
	}
	if _, err := ParseCards("AH,,KD"); err == nil {
		t.Error("missing element accepted")
	}
}

func TestSpecial(t *testing.T) {
	for r := Ace; r <= King; r++ {
		want := r == Two || r == Seven || r == Ten
		if got := (Card{r, Clubs}).Special(); got != want {
			t.Errorf("Special(%v) = %v", r, got)
		}
	}
}

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	if len(deck) != 52 {
		t.Fatalf("deck of %d cards", len(deck))
	}
	seen := make(map[Card]bool)
	for _, c := range deck {
		if seen[c] {
			t.Errorf("duplicate %v", c)
		}
		seen[c] = true
	}

	Shuffle(deck)
	if len(deck) != 52 {
		t.Errorf("shuffle changed the deck size to %d", len(deck))
	}
	for _, c := range deck {
		if !seen[c] {
			t.Errorf("shuffle invented %v", c)
		}
	}
}
