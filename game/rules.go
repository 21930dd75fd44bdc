// Play validation
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

import "go-gamba"

// canPlayOn decides whether C may be placed on TOP.  The clauses are
// ordered: a 2 is wild, anything goes on a 2, the post-7 constraint
// overrides the 10 (a burn is not a low card), otherwise the rank
// must not drop.
func canPlayOn(c gamba.Card, top gamba.Card, mustLow bool) bool {
	if c.Rank == gamba.Two {
		return true
	}
	if top.Rank == gamba.Two {
		return true
	}
	if mustLow {
		return c.Rank <= gamba.Seven
	}
	if c.Rank == gamba.Ten {
		return true
	}
	return c.Rank >= top.Rank
}

// sameRank reports whether all cards share one rank.  Multi-card
// plays are only allowed for equal ranks.
func sameRank(cards []gamba.Card) bool {
	for _, c := range cards[1:] {
		if c.Rank != cards[0].Rank {
			return false
		}
	}
	return true
}

func index(cards []gamba.Card, c gamba.Card) int {
	for i, h := range cards {
		if h == c {
			return i
		}
	}
	return -1
}

// holds reports whether HAND contains CARDS as a multiset.
func holds(hand, cards []gamba.Card) bool {
	rest := make([]gamba.Card, len(hand))
	copy(rest, hand)
	for _, c := range cards {
		i := index(rest, c)
		if i < 0 {
			return false
		}
		rest = append(rest[:i], rest[i+1:]...)
	}
	return true
}

// take removes CARDS from HAND.  The caller must have checked holds.
func take(hand []gamba.Card, cards []gamba.Card) []gamba.Card {
	for _, c := range cards {
		i := index(hand, c)
		if i >= 0 {
			hand = append(hand[:i], hand[i+1:]...)
		}
	}
	return hand
}
