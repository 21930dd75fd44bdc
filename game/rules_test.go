// Play validation tests
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

package game

import (
	"testing"

	"go-gamba"
)

func card(t *testing.T, s string) gamba.Card {
	t.Helper()
	c, err := gamba.ParseCard(s)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func cards(t *testing.T, s string) []gamba.Card {
	t.Helper()
	cs, err := gamba.ParseCards(s)
	if err != nil {
		t.Fatal(err)
	}
	return cs
}

func TestCanPlayOn(t *testing.T) {
	for _, test := range []struct {
		play    string
		top     string
		mustLow bool
		want    bool
	}{
		// Plain rank comparison
		{play: "5H", top: "3D", want: true},
		{play: "3D", top: "5H", want: false},
		{play: "9C", top: "9S", want: true},
		{play: "AS", top: "AS", want: true},
		{play: "AS", top: "3D", want: false},

		// A 2 is wild in both directions
		{play: "2C", top: "KD", want: true},
		{play: "2C", top: "KD", mustLow: true, want: true},
		{play: "KD", top: "2C", want: true},
		{play: "3H", top: "2C", mustLow: true, want: true},

		// Post-7 constraint
		{play: "9H", top: "7C", mustLow: true, want: false},
		{play: "4D", top: "7C", mustLow: true, want: true},
		{play: "7S", top: "7C", mustLow: true, want: true},
		{play: "AS", top: "7C", mustLow: true, want: true},

		// A 10 burns over anything, but is not a low card
		{play: "10S", top: "KD", want: true},
		{play: "10S", top: "3D", want: true},
		{play: "10S", top: "7C", mustLow: true, want: false},
	} {
		got := canPlayOn(card(t, test.play), card(t, test.top), test.mustLow)
		if got != test.want {
			t.Errorf("canPlayOn(%s, %s, mustLow=%v) = %v, want %v",
				test.play, test.top, test.mustLow, got, test.want)
		}
	}
}

func TestSameRank(t *testing.T) {
	if !sameRank(cards(t, "5H")) {
		t.Error("single card must count as same rank")
	}
	if !sameRank(cards(t, "5H,5S,5C")) {
		t.Error("equal ranks not recognized")
	}
	if sameRank(cards(t, "5H,6H")) {
		t.Error("mixed ranks not rejected")
	}
}

func TestHoldsAndTake(t *testing.T) {
	hand := cards(t, "5H,5S,KD")
	if !holds(hand, cards(t, "5H,KD")) {
		t.Error("subset not recognized")
	}
	if holds(hand, cards(t, "5H,5H")) {
		t.Error("duplicate satisfied by a single copy")
	}
	if holds(hand, cards(t, "QD")) {
		t.Error("missing card reported as held")
	}

	rest := take(hand, cards(t, "5S"))
	if len(rest) != 2 || index(rest, card(t, "5S")) != -1 {
		t.Errorf("take left %v", rest)
	}
}
