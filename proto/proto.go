// Wire protocol
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

// Package proto implements the line-based message protocol spoken
// between server and clients.  A message is one LF-terminated line
//
//	type|player|room|key=value|key=value|...
//
// where TYPE is a decimal message type.  Keys and well-known
// non-numeric values may be abbreviated on the wire using the
// compact code table in codes.go.
package proto

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Type uint8

// Requests (client to server)
const (
	Connect    Type = 0
	JoinRoom   Type = 2
	LeaveRoom  Type = 3
	Ping       Type = 4
	StartGame  Type = 5
	Reconnect  Type = 6
	PlayCards  Type = 7
	PickupPile Type = 8
)

// Responses (server to client)
const (
	Connected          Type = 100
	RoomJoined         Type = 101
	RoomLeft           Type = 102
	Error              Type = 103
	Pong               Type = 104
	GameStarted        Type = 105
	GameState          Type = 106
	PlayerDisconnected Type = 107
	PlayerReconnected  Type = 109
	TurnResult         Type = 111
	GameOver           Type = 112
)

var names = map[Type]string{
	Connect:            "CONNECT",
	JoinRoom:           "JOIN_ROOM",
	LeaveRoom:          "LEAVE_ROOM",
	Ping:               "PING",
	StartGame:          "START_GAME",
	Reconnect:          "RECONNECT",
	PlayCards:          "PLAY_CARDS",
	PickupPile:         "PICKUP_PILE",
	Connected:          "CONNECTED",
	RoomJoined:         "ROOM_JOINED",
	RoomLeft:           "ROOM_LEFT",
	Error:              "ERROR",
	Pong:               "PONG",
	GameStarted:        "GAME_STARTED",
	GameState:          "GAME_STATE",
	PlayerDisconnected: "PLAYER_DISCONNECTED",
	PlayerReconnected:  "PLAYER_RECONNECTED",
	TurnResult:         "TURN_RESULT",
	GameOver:           "GAME_OVER",
}

func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
}

// Request reports whether T is a message type clients may send.
func (t Type) Request() bool {
	switch t {
	case Connect, JoinRoom, LeaveRoom, Ping,
		StartGame, Reconnect, PlayCards, PickupPile:
		return true
	}
	return false
}

// ErrInvalidFrame marks a line that could not be parsed at all.  The
// router turns it into an error reply that tears the connection down.
var ErrInvalidFrame = errors.New("invalid frame")

// Message is one parsed protocol frame.  Field insertion order is
// preserved so that serialization is deterministic.
type Message struct {
	Type   Type
	Player string
	Room   string

	keys []string
	data map[string]string
}

func New(t Type) *Message {
	return &Message{Type: t}
}

// Set records a key/value field, keeping the first-insertion order.
func (m *Message) Set(key, value string) *Message {
	if m.data == nil {
		m.data = make(map[string]string)
	}
	if _, ok := m.data[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.data[key] = value
	return m
}

func (m *Message) SetInt(key string, n int) *Message {
	return m.Set(key, strconv.Itoa(n))
}

func (m *Message) SetBool(key string, b bool) *Message {
	return m.Set(key, strconv.FormatBool(b))
}

func (m *Message) Get(key string) (string, bool) {
	v, ok := m.data[key]
	return v, ok
}

// Field returns the value for KEY, or the empty string.
func (m *Message) Field(key string) string {
	return m.data[key]
}

func (m *Message) Keys() []string {
	return m.keys
}

// numeric reports whether S looks like a decimal integer; such
// values are exempt from compact-code substitution.
func numeric(s string) bool {
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Parse interprets one frame (without the trailing newline).  Parsing
// is total: any malformed input yields ErrInvalidFrame, never a
// panic.  Compact keys and values are expanded to their verbose form.
func Parse(line string) (*Message, error) {
	line = strings.TrimSuffix(line, "\r")
	parts := strings.Split(line, "|")
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: %d fields", ErrInvalidFrame, len(parts))
	}

	n, err := strconv.Atoi(parts[0])
	if err != nil || n < 0 || n > 200 {
		return nil, fmt.Errorf("%w: bad type %q", ErrInvalidFrame, parts[0])
	}

	m := &Message{
		Type:   Type(n),
		Player: parts[1],
		Room:   parts[2],
	}
	for _, field := range parts[3:] {
		eq := strings.IndexByte(field, '=')
		if eq < 0 {
			// Fields without a separator carry no
			// information and are dropped.
			continue
		}
		key, value := field[:eq], field[eq+1:]
		if v, ok := verboseKeys[key]; ok {
			key = v
		}
		if !numeric(value) {
			if v, ok := verboseValues[value]; ok {
				value = v
			}
		}
		m.Set(key, value)
	}
	return m, nil
}

// Serialize renders the frame, without a trailing newline.  With
// COMPACT set, keys and well-known non-numeric values are replaced
// by their short codes.
func (m *Message) Serialize(compact bool) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(int(m.Type)))
	sb.WriteByte('|')
	sb.WriteString(m.Player)
	sb.WriteByte('|')
	sb.WriteString(m.Room)

	for _, key := range m.keys {
		value := m.data[key]
		if compact {
			if c, ok := compactKeys[key]; ok {
				key = c
			}
			if !numeric(value) {
				if c, ok := compactValues[value]; ok {
					value = c
				}
			}
		}
		sb.WriteByte('|')
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(value)
	}
	return sb.String()
}

func (m *Message) String() string {
	return m.Serialize(false)
}
