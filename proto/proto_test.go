// Wire protocol tests
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

package proto

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	for _, test := range []struct {
		line   string
		fail   bool
		mtype  Type
		player string
		room   string
		fields map[string]string
	}{
		{
			line:   "0|||name=Alice",
			mtype:  Connect,
			fields: map[string]string{"name": "Alice"},
		}, {
			line:  "2|Alice|",
			mtype: JoinRoom, player: "Alice",
		}, {
			line:  "4|Alice|ROOM_1\r",
			mtype: Ping, player: "Alice", room: "ROOM_1",
		}, {
			line:   "7|Alice|ROOM_1|cards=5H,5S",
			mtype:  PlayCards,
			player: "Alice",
			room:   "ROOM_1",
			fields: map[string]string{"cards": "5H,5S"},
		}, {
			// Compact keys and values expand on parse.
			line:   "106|Alice|ROOM_1|h=5H|dk=39|st=ok",
			mtype:  GameState,
			player: "Alice",
			room:   "ROOM_1",
			fields: map[string]string{
				"hand":      "5H",
				"deck_size": "39",
				"status":    StatusSuccess,
			},
		}, {
			// Fields without a separator are dropped.
			line:   "0|||garbage|name=Bob",
			mtype:  Connect,
			fields: map[string]string{"name": "Bob"},
		},
		{line: "", fail: true},
		{line: "hello", fail: true},
		{line: "0|", fail: true},
		{line: "x||", fail: true},
		{line: "-1||", fail: true},
		{line: "201||", fail: true},
	} {
		m, err := Parse(test.line)
		if test.fail {
			if !errors.Is(err, ErrInvalidFrame) {
				t.Errorf("Parse(%q) = %v, want invalid frame",
					test.line, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", test.line, err)
			continue
		}
		if m.Type != test.mtype {
			t.Errorf("Parse(%q) type = %v, want %v",
				test.line, m.Type, test.mtype)
		}
		if m.Player != test.player {
			t.Errorf("Parse(%q) player = %q, want %q",
				test.line, m.Player, test.player)
		}
		if m.Room != test.room {
			t.Errorf("Parse(%q) room = %q, want %q",
				test.line, m.Room, test.room)
		}
		for k, v := range test.fields {
			if got := m.Field(k); got != v {
				t.Errorf("Parse(%q) field %q = %q, want %q",
					test.line, k, got, v)
			}
		}
	}
}

func TestSerialize(t *testing.T) {
	m := New(GameState)
	m.Player = "Alice"
	m.Room = "ROOM_1"
	m.Set("hand", "5H,AD,KC")
	m.SetInt("deck_size", 39)
	m.SetBool("your_turn", true)
	m.Set("status", StatusSuccess)

	verbose := "106|Alice|ROOM_1|hand=5H,AD,KC|deck_size=39|your_turn=true|status=success"
	if got := m.Serialize(false); got != verbose {
		t.Errorf("Serialize(false) = %q, want %q", got, verbose)
	}

	// Keys compact, numeric values survive, booleans survive, known
	// values compact.
	compact := "106|Alice|ROOM_1|h=5H,AD,KC|dk=39|yt=true|st=ok"
	if got := m.Serialize(true); got != compact {
		t.Errorf("Serialize(true) = %q, want %q", got, compact)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, compact := range []bool{false, true} {
		m := New(TurnResult)
		m.Player = "Bob"
		m.Room = "ROOM_2"
		m.Set("result", ResultPlayed)
		m.Set("cards", "10S")
		m.SetInt("discard_pile_size", 0)

		got, err := Parse(m.Serialize(compact))
		if err != nil {
			t.Fatalf("round trip (compact=%v) failed: %v", compact, err)
		}
		if got.Type != m.Type || got.Player != m.Player || got.Room != m.Room {
			t.Errorf("round trip (compact=%v) header mismatch: %v", compact, got)
		}
		for _, k := range m.Keys() {
			if got.Field(k) != m.Field(k) {
				t.Errorf("round trip (compact=%v) field %q = %q, want %q",
					compact, k, got.Field(k), m.Field(k))
			}
		}
	}
}

func TestCodeTableInverse(t *testing.T) {
	for verbose, compact := range compactKeys {
		if got := verboseKeys[compact]; got != verbose {
			t.Errorf("key code %q maps back to %q, want %q",
				compact, got, verbose)
		}
	}
	for verbose, compact := range compactValues {
		if got := verboseValues[compact]; got != verbose {
			t.Errorf("value code %q maps back to %q, want %q",
				compact, got, verbose)
		}
	}
}

func TestNumericValuesNotSubstituted(t *testing.T) {
	// A table with a numeric-looking code must never fire; numeric
	// check guards both directions.
	for _, s := range []string{"0", "42", "-3", "39"} {
		if !numeric(s) {
			t.Errorf("numeric(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "-", "ok", "4D", "a1"} {
		if numeric(s) {
			t.Errorf("numeric(%q) = true, want false", s)
		}
	}
}

func TestRequestTypes(t *testing.T) {
	for _, typ := range []Type{Connect, JoinRoom, LeaveRoom, Ping,
		StartGame, Reconnect, PlayCards, PickupPile} {
		if !typ.Request() {
			t.Errorf("%v not recognized as a request", typ)
		}
	}
	for _, typ := range []Type{Connected, RoomJoined, Error, Pong,
		GameState, GameOver, Type(1), Type(42)} {
		if typ.Request() {
			t.Errorf("%v wrongly recognized as a request", typ)
		}
	}
}
