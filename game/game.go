// Game engine
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

// Package game implements the card game state machine of one room:
// hands, reserves, draw and discard piles, turn order and the
// special card effects (2 wild, 7 forces low, 10 burns the pile).
//
// The engine is not thread safe; the room registry serializes all
// access, and no method performs I/O.
package game

import (
	"errors"
	"time"

	"go-gamba"
)

type Phase int

const (
	Waiting Phase = iota
	Active
	Finished
)

func (p Phase) String() string {
	switch p {
	case Waiting:
		return "waiting"
	case Active:
		return "active"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// EmptyPile is the placeholder top card reported while the discard
// pile is empty.  Clients treat it as "any card is valid".
const EmptyPile = "1S"

// handSize is the number of cards a hand is refilled to after a
// play, as long as the draw pile lasts.
const handSize = 3

// reserveSize is the number of face down cards dealt to each player.
const reserveSize = 3

var (
	ErrNotWaiting    = errors.New("game has already started")
	ErrNotActive     = errors.New("game is not active")
	ErrTooFew        = errors.New("not enough players")
	ErrKnownPlayer   = errors.New("player already seated")
	ErrUnknownPlayer = errors.New("player not seated")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNoCards       = errors.New("no cards given")
	ErrNotInHand     = errors.New("cards not in hand")
	ErrMixedRanks    = errors.New("cards must share a rank")
	ErrRuleViolation = errors.New("play not allowed on the pile")
	ErrHandNotEmpty  = errors.New("hand is not empty")
	ErrNoReserves    = errors.New("no reserves left")
	ErrPileEmpty     = errors.New("discard pile is empty")
)

// PlayerHand is one seat at the table.
type PlayerHand struct {
	Name     string
	Hand     []gamba.Card
	Reserves []gamba.Card
}

// Game is the state of one match.  Turn order is the order of the
// players slice; current indexes into it while the game is active.
type Game struct {
	deck      []gamba.Card
	discard   []gamba.Card
	burned    []gamba.Card
	players   []*PlayerHand
	current   int
	phase     Phase
	mustLow   bool
	exhausted bool
	winner    string
	moves     uint
	started   time.Time
}

func New() *Game {
	return &Game{phase: Waiting}
}

// Table builds an active game in an arbitrary position, bypassing
// the deal.  Intended for tests and replays.
func Table(deck, discard []gamba.Card, seats ...*PlayerHand) *Game {
	return &Game{
		deck:    deck,
		discard: discard,
		players: seats,
		phase:   Active,
		started: time.Now(),
	}
}

// Outcome describes what a play did to the table.
type Outcome struct {
	// The cards that were played, or for a failed reserve flip
	// the single revealed card.
	Played []gamba.Card
	// PickedUp is set when a reserve flip was invalid and the
	// pile moved into the player's hand instead.
	PickedUp bool
	Won      bool
	Winner   string
}

func (g *Game) AddPlayer(name string) error {
	if g.phase != Waiting {
		return ErrNotWaiting
	}
	for _, p := range g.players {
		if p.Name == name {
			return ErrKnownPlayer
		}
	}
	g.players = append(g.players, &PlayerHand{Name: name})
	return nil
}

// RemovePlayer unseats a player.  Dropping a seat mid-game would
// corrupt the turn order, so the room ends the game first.
func (g *Game) RemovePlayer(name string) error {
	if g.phase == Active {
		return ErrNotWaiting
	}
	for i, p := range g.players {
		if p.Name == name {
			g.players = append(g.players[:i], g.players[i+1:]...)
			return nil
		}
	}
	return ErrUnknownPlayer
}

// Start shuffles a fresh deck and deals: three reserves to each
// player, then three hand cards to each, then one card face up onto
// the discard pile.  The first seated player opens.
func (g *Game) Start() error {
	if g.phase != Waiting {
		return ErrNotWaiting
	}
	if len(g.players) < 2 {
		return ErrTooFew
	}

	g.deck = gamba.NewDeck()
	gamba.Shuffle(g.deck)

	for _, p := range g.players {
		for i := 0; i < reserveSize; i++ {
			p.Reserves = append(p.Reserves, g.pop())
		}
	}
	for _, p := range g.players {
		for i := 0; i < handSize; i++ {
			p.Hand = append(p.Hand, g.pop())
		}
	}
	g.discard = append(g.discard, g.pop())

	g.current = 0
	g.mustLow = false
	g.phase = Active
	g.started = time.Now()
	return nil
}

func (g *Game) pop() gamba.Card {
	c := g.deck[len(g.deck)-1]
	g.deck = g.deck[:len(g.deck)-1]
	return c
}

// turn validates that it is NAME's move and returns their seat.
func (g *Game) turn(name string) (*PlayerHand, error) {
	if g.phase != Active {
		return nil, ErrNotActive
	}
	p := g.players[g.current]
	if p.Name != name {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

// Play places CARDS from NAME's hand onto the discard pile.
func (g *Game) Play(name string, cards []gamba.Card) (*Outcome, error) {
	p, err := g.turn(name)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	if !holds(p.Hand, cards) {
		return nil, ErrNotInHand
	}
	if !sameRank(cards) {
		return nil, ErrMixedRanks
	}
	if !g.valid(cards) {
		return nil, ErrRuleViolation
	}

	p.Hand = take(p.Hand, cards)
	return g.accept(p, cards), nil
}

// PlayReserve reveals the top reserve card.  It is only available
// once the hand is empty.  An invalid reveal is punished: the card
// joins the pile and the whole pile moves into the hand.
func (g *Game) PlayReserve(name string) (*Outcome, error) {
	p, err := g.turn(name)
	if err != nil {
		return nil, err
	}
	if len(p.Hand) != 0 {
		return nil, ErrHandNotEmpty
	}
	if len(p.Reserves) == 0 {
		return nil, ErrNoReserves
	}

	c := p.Reserves[len(p.Reserves)-1]
	p.Reserves = p.Reserves[:len(p.Reserves)-1]

	if g.valid([]gamba.Card{c}) {
		return g.accept(p, []gamba.Card{c}), nil
	}

	g.discard = append(g.discard, c)
	p.Hand = append(p.Hand, g.discard...)
	g.discard = g.discard[:0]
	g.mustLow = false
	g.moves++
	g.advance()
	return &Outcome{Played: []gamba.Card{c}, PickedUp: true}, nil
}

// Pickup moves the whole discard pile into NAME's hand.
func (g *Game) Pickup(name string) error {
	p, err := g.turn(name)
	if err != nil {
		return err
	}
	if len(g.discard) == 0 {
		return ErrPileEmpty
	}

	p.Hand = append(p.Hand, g.discard...)
	g.discard = g.discard[:0]
	g.mustLow = false
	g.moves++
	g.advance()
	return nil
}

// Abort ends the game early and declares WINNER (possibly "") the
// winner, e.g. when the opponent abandons the table.
func (g *Game) Abort(winner string) {
	if g.phase == Finished {
		return
	}
	g.phase = Finished
	g.winner = winner
}

// valid checks CARDS against the top of the pile.  An empty pile
// accepts anything.
func (g *Game) valid(cards []gamba.Card) bool {
	if len(g.discard) == 0 {
		return true
	}
	top := g.discard[len(g.discard)-1]
	for _, c := range cards {
		if !canPlayOn(c, top, g.mustLow) {
			return false
		}
	}
	return true
}

// accept applies the effects of a validated play: pile, special
// cards, refill, win check, turn advance.
func (g *Game) accept(p *PlayerHand, cards []gamba.Card) *Outcome {
	g.discard = append(g.discard, cards...)

	g.mustLow = false
	for _, c := range cards {
		switch c.Rank {
		case gamba.Seven:
			g.mustLow = true
		case gamba.Ten:
			// The 10 burns the pile including itself;
			// burned cards leave the game for good.
			g.burned = append(g.burned, g.discard...)
			g.discard = g.discard[:0]
		}
	}

	g.refill(p)
	g.moves++

	if len(p.Hand) == 0 && len(p.Reserves) == 0 {
		g.phase = Finished
		g.winner = p.Name
		return &Outcome{Played: cards, Won: true, Winner: p.Name}
	}

	g.advance()
	return &Outcome{Played: cards}
}

// refill draws the hand back up to three cards.  The first time the
// deck runs dry the game enters its endgame and never draws again,
// even if cards would later be available.
func (g *Game) refill(p *PlayerHand) {
	if g.exhausted {
		return
	}
	for len(p.Hand) < handSize {
		if len(g.deck) == 0 {
			g.exhausted = true
			return
		}
		p.Hand = append(p.Hand, g.pop())
	}
}

func (g *Game) advance() {
	g.current = (g.current + 1) % len(g.players)
}

// Opponent is what a viewer learns about another seat.
type Opponent struct {
	Name     string
	Hand     int
	Reserves int
}

// Snapshot is the per-viewer projection of the table: the viewer's
// own cards in full, everyone else's as counts.
type Snapshot struct {
	Hand      []gamba.Card
	Reserves  int
	TopCard   string
	Current   string
	YourTurn  bool
	MustLow   bool
	DeckSize  int
	PileSize  int
	Opponents []Opponent
}

func (g *Game) Snapshot(viewer string) *Snapshot {
	s := &Snapshot{
		TopCard:  EmptyPile,
		MustLow:  g.mustLow,
		DeckSize: len(g.deck),
		PileSize: len(g.discard),
	}
	if len(g.discard) > 0 {
		s.TopCard = g.discard[len(g.discard)-1].String()
	}
	if g.phase == Active {
		s.Current = g.players[g.current].Name
		s.YourTurn = s.Current == viewer
	}
	for _, p := range g.players {
		if p.Name == viewer {
			s.Hand = append([]gamba.Card(nil), p.Hand...)
			s.Reserves = len(p.Reserves)
		} else {
			s.Opponents = append(s.Opponents, Opponent{
				Name:     p.Name,
				Hand:     len(p.Hand),
				Reserves: len(p.Reserves),
			})
		}
	}
	return s
}

func (g *Game) Phase() Phase     { return g.phase }
func (g *Game) Winner() string   { return g.winner }
func (g *Game) Moves() uint      { return g.moves }
func (g *Game) MustLow() bool    { return g.mustLow }
func (g *Game) DeckSize() int    { return len(g.deck) }
func (g *Game) PileSize() int    { return len(g.discard) }
func (g *Game) Started() time.Time { return g.started }

// Current returns the name whose turn it is, or "" outside a game.
func (g *Game) Current() string {
	if g.phase != Active {
		return ""
	}
	return g.players[g.current].Name
}

// TopCard returns the top of the discard pile, if any.
func (g *Game) TopCard() (gamba.Card, bool) {
	if len(g.discard) == 0 {
		return gamba.Card{}, false
	}
	return g.discard[len(g.discard)-1], true
}

// Players lists the seat names in turn order.
func (g *Game) Players() []string {
	names := make([]string, len(g.players))
	for i, p := range g.players {
		names[i] = p.Name
	}
	return names
}

// Seat returns the hand of NAME, or nil.
func (g *Game) Seat(name string) *PlayerHand {
	for _, p := range g.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}
