// Client worker tests
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
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"go-gamba/proto"
)

// await polls P until a message of the given type shows up.
func await(t *testing.T, p *pipe, typ proto.Type) *proto.Message {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, m := range p.take() {
			if m.Type == typ {
				return m
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no %v received", typ)
	return nil
}

func TestOversizeFrame(t *testing.T) {
	core := testCore()

	bob := &pipe{}
	core.Serve(bob, "0|||name=Bob")
	core.Serve(bob, "2||")
	bob.take()

	srv, peer := net.Pipe()
	worker := MakeClient(srv, core, core.conf)
	go worker.Handle()
	go io.Copy(io.Discard, peer)

	if _, err := peer.Write([]byte("0|||name=Alice\n2||\n")); err != nil {
		t.Fatal(err)
	}
	await(t, bob, proto.RoomJoined)

	// An unterminated frame beyond the limit is a protocol
	// violation; the write may stall once the worker stops
	// reading, so it runs on the side.
	go peer.Write([]byte(strings.Repeat("x", maxFrame+1)))

	m := await(t, bob, proto.PlayerDisconnected)
	if m.Field("disconnected_player") != "Alice" ||
		m.Field("status") != proto.StatusInvalid {
		t.Errorf("teardown broadcast = %v", m)
	}
	if p, ok := core.players.Get("Alice"); !ok || !p.Gone {
		t.Errorf("session after teardown = %+v, %v", p, ok)
	}
}

func TestMalformedFrameKillsWorker(t *testing.T) {
	core := testCore()

	bob := &pipe{}
	core.Serve(bob, "0|||name=Bob")
	core.Serve(bob, "2||")
	bob.take()

	srv, peer := net.Pipe()
	worker := MakeClient(srv, core, core.conf)
	go worker.Handle()
	go io.Copy(io.Discard, peer)

	if _, err := peer.Write([]byte("0|||name=Alice\n2||\ngarbage\n")); err != nil {
		t.Fatal(err)
	}

	m := await(t, bob, proto.PlayerDisconnected)
	if m.Field("status") != proto.StatusInvalid {
		t.Errorf("teardown broadcast = %v", m)
	}
}
