// Player registry tests
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

package server

import (
	"errors"
	"sync"
	"testing"
	"time"

	"go-gamba/proto"
)

// pipe is an in-memory Conn recording everything sent over it.
type pipe struct {
	mu     sync.Mutex
	msgs   []*proto.Message
	killed bool
}

func (p *pipe) Send(m *proto.Message) error {
	p.mu.Lock()
	p.msgs = append(p.msgs, m)
	p.mu.Unlock()
	return nil
}

func (p *pipe) Kill() {
	p.mu.Lock()
	p.killed = true
	p.mu.Unlock()
}

// take drains the recorded messages.
func (p *pipe) take() []*proto.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	msgs := p.msgs
	p.msgs = nil
	return msgs
}

func TestRegistryConnect(t *testing.T) {
	r := MakeRegistry()
	a, b := &pipe{}, &pipe{}

	if err := r.Connect("Alice", a); err != nil {
		t.Fatal(err)
	}
	if err := r.Connect("Alice", b); !errors.Is(err, ErrNameTaken) {
		t.Errorf("duplicate connect = %v, want name taken", err)
	}
	if got := r.NameOf(a); got != "Alice" {
		t.Errorf("NameOf = %q, want Alice", got)
	}
	if _, ok := r.ConnOf("Alice"); !ok {
		t.Error("no connection for a connected player")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRegistryDisconnectReconnect(t *testing.T) {
	r := MakeRegistry()
	a, b := &pipe{}, &pipe{}

	if err := r.Reconnect("Alice", a); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("reconnect of stranger = %v", err)
	}

	r.Connect("Alice", a)
	r.SetRoom("Alice", "ROOM_1")
	if err := r.Reconnect("Alice", b); !errors.Is(err, ErrNotGone) {
		t.Errorf("reconnect while connected = %v", err)
	}

	room, c, ok := r.Disconnect("Alice")
	if !ok || room != "ROOM_1" || c != Conn(a) {
		t.Fatalf("Disconnect = %q, %v, %v", room, c, ok)
	}
	if name := r.NameOf(a); name != "" {
		t.Errorf("stale socket still resolves to %q", name)
	}
	if _, ok := r.ConnOf("Alice"); ok {
		t.Error("gone player still has a connection")
	}
	// The session itself, including the room, survives.
	if p, ok := r.Get("Alice"); !ok || !p.Gone || p.Room != "ROOM_1" {
		t.Errorf("session after disconnect = %+v, %v", p, ok)
	}

	if _, _, ok := r.Disconnect("Alice"); ok {
		t.Error("double disconnect reported ok")
	}

	if err := r.Reconnect("Alice", b); err != nil {
		t.Fatal(err)
	}
	if got := r.NameOf(b); got != "Alice" {
		t.Errorf("NameOf after reconnect = %q", got)
	}
}

func TestRegistryRemove(t *testing.T) {
	r := MakeRegistry()
	a := &pipe{}
	r.Connect("Alice", a)
	r.Remove("Alice")

	if _, ok := r.Get("Alice"); ok {
		t.Error("removed player still present")
	}
	if got := r.NameOf(a); got != "" {
		t.Errorf("removed player's socket resolves to %q", got)
	}
	// The name is free again.
	if err := r.Connect("Alice", a); err != nil {
		t.Errorf("connect after remove = %v", err)
	}
}

func TestRegistryDeadlines(t *testing.T) {
	r := MakeRegistry()
	a, b, c := &pipe{}, &pipe{}, &pipe{}
	r.Connect("Alice", a)
	r.Connect("Bob", b)
	r.Connect("Carol", c)

	// Age Alice's ping and Bob's disconnection by hand.
	r.pingMu.Lock()
	r.ping["Alice"] = time.Now().Add(-time.Minute)
	r.pingMu.Unlock()
	r.Disconnect("Bob")
	r.mu.Lock()
	r.byName["Bob"].GoneSince = time.Now().Add(-time.Hour)
	r.mu.Unlock()

	out := r.TimedOut(30 * time.Second)
	if len(out) != 1 || out[0] != "Alice" {
		t.Errorf("TimedOut = %v, want [Alice]", out)
	}

	gone := r.GraceExpired(10 * time.Minute)
	if len(gone) != 1 || gone[0] != "Bob" {
		t.Errorf("GraceExpired = %v, want [Bob]", gone)
	}

	// A fresh ping keeps Carol out of both lists; a fresh Touch
	// rescues Alice.
	r.Touch("Alice")
	if out := r.TimedOut(30 * time.Second); len(out) != 0 {
		t.Errorf("TimedOut after touch = %v", out)
	}
}

func TestRegistryMembers(t *testing.T) {
	r := MakeRegistry()
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		r.Connect(name, &pipe{})
	}
	r.SetRoom("Alice", "ROOM_1")
	r.SetRoom("Bob", "ROOM_1")

	members := r.MembersOf("ROOM_1")
	if len(members) != 2 {
		t.Errorf("MembersOf = %v", members)
	}
	if got := r.Room("Carol"); got != "" {
		t.Errorf("lobby player has room %q", got)
	}

	r.ClearRoom("Alice")
	if got := r.Room("Alice"); got != "" {
		t.Errorf("room after clear = %q", got)
	}
}
