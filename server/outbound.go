// Outbound message plans
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

import "go-gamba/proto"

// Conn is the write side of a client connection.  Send must write
// the frame atomically; Kill closes the underlying socket and is
// safe to call more than once.
type Conn interface {
	Send(*proto.Message) error
	Kill()
}

type mode int

const (
	modeReply mode = iota
	modeTargeted
	modeBroadcast
)

// Outbound is one planned message.  Handlers return an ordered plan
// instead of writing to sockets, so game logic stays testable and no
// I/O happens under a registry lock.
type Outbound struct {
	msg     *proto.Message
	mode    mode
	to      string // targeted recipient
	room    string // broadcast room
	exclude string // skipped on broadcast, usually the sender
}

func reply(m *proto.Message) Outbound {
	return Outbound{msg: m, mode: modeReply}
}

func targeted(name string, m *proto.Message) Outbound {
	return Outbound{msg: m, mode: modeTargeted, to: name}
}

func broadcast(room, exclude string, m *proto.Message) Outbound {
	return Outbound{msg: m, mode: modeBroadcast, room: room, exclude: exclude}
}

// disconnects reports whether the plan carries a reply that must
// tear the originating connection down once the batch is sent.
func disconnects(plan []Outbound) bool {
	for _, o := range plan {
		if o.mode != modeReply {
			continue
		}
		if v, ok := o.msg.Get("disconnect"); ok && v == "true" {
			return true
		}
	}
	return false
}
