// Card and deck model
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

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

type Suit byte

const (
	Hearts   Suit = 'H'
	Diamonds Suit = 'D'
	Clubs    Suit = 'C'
	Spades   Suit = 'S'
)

var Suits = [...]Suit{Hearts, Diamonds, Clubs, Spades}

// Rank values are ace-low: A=1 up to K=13.
type Rank uint8

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return strconv.Itoa(int(r))
	}
}

type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	return c.Rank.String() + string(c.Suit)
}

// Special cards (2, 7, 10) have side effects when played.
func (c Card) Special() bool {
	return c.Rank == Two || c.Rank == Seven || c.Rank == Ten
}

// ParseCard reads the textual form of a card, e.g. "AH", "10S", "QD".
func ParseCard(s string) (Card, error) {
	if len(s) < 2 {
		return Card{}, fmt.Errorf("malformed card %q", s)
	}

	var suit Suit
	switch Suit(s[len(s)-1]) {
	case Hearts:
		suit = Hearts
	case Diamonds:
		suit = Diamonds
	case Clubs:
		suit = Clubs
	case Spades:
		suit = Spades
	default:
		return Card{}, fmt.Errorf("unknown suit in %q", s)
	}

	var rank Rank
	switch tok := s[:len(s)-1]; tok {
	case "A":
		rank = Ace
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	default:
		n, err := strconv.Atoi(tok)
		if err != nil || n < 2 || n > 10 {
			return Card{}, fmt.Errorf("unknown rank in %q", s)
		}
		rank = Rank(n)
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards reads a comma separated list of cards.
func ParseCards(s string) ([]Card, error) {
	if s == "" {
		return nil, nil
	}

	var cards []Card
	for _, tok := range strings.Split(s, ",") {
		c, err := ParseCard(strings.TrimSpace(tok))
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// FormatCards is the inverse of ParseCards.
func FormatCards(cards []Card) string {
	var sb strings.Builder
	for i, c := range cards {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}

// NewDeck returns the full 52 card deck in a fixed order.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, s := range Suits {
		for r := Ace; r <= King; r++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

func Shuffle(cards []Card) {
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
