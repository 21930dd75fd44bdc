// Server core
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

// Package server couples the connection layer (listener, per-client
// workers, heartbeat supervisor) with the session layer (player and
// room registries) and the message router between them.
package server

import (
	"log"

	"go-gamba"
	"go-gamba/cmd"
	"go-gamba/proto"
)

// Core holds the shared session state all workers operate on.
type Core struct {
	st      *cmd.State
	conf    *cmd.Conf
	players *Registry
	rooms   *Rooms
}

func MakeCore(st *cmd.State, conf *cmd.Conf) *Core {
	return &Core{
		st:      st,
		conf:    conf,
		players: MakeRegistry(),
		rooms:   MakeRooms(conf.MaxRooms),
	}
}

// Register installs the TCP listener and the heartbeat supervisor.
// The returned core is shared with the web interface.
func Register(st *cmd.State, conf *cmd.Conf) *Core {
	core := MakeCore(st, conf)
	st.Register(&Listener{core: core})
	st.Register(&supervisor{core: core, shut: make(chan struct{})})
	return core
}

// Players exposes the session records to the web interface.
func (core *Core) Players() []gamba.PlayerStatus {
	return core.players.Status()
}

// Rooms exposes the room list to the web interface.
func (core *Core) Rooms() []gamba.RoomStatus {
	return core.rooms.Status()
}

// dispatch executes a plan.  Send failures are logged and skipped;
// the affected peer's own worker notices the broken socket.
func (core *Core) dispatch(origin Conn, plan []Outbound) {
	for _, o := range plan {
		switch o.mode {
		case modeReply:
			if origin == nil {
				continue
			}
			if err := origin.Send(o.msg); err != nil {
				gamba.Debug.Print(err)
			}
		case modeTargeted:
			if c, ok := core.players.ConnOf(o.to); ok {
				if err := c.Send(o.msg); err != nil {
					gamba.Debug.Print(err)
				}
			}
		case modeBroadcast:
			for _, name := range core.players.MembersOf(o.room) {
				if name == o.exclude {
					continue
				}
				c, ok := core.players.ConnOf(name)
				if !ok {
					continue
				}
				if err := c.Send(o.msg); err != nil {
					gamba.Debug.Print(err)
				}
			}
		}
	}
}

// Drop tears down the session side of a dead connection: the player
// is marked temporarily gone and the room is notified.  Calling it
// again for the same connection is a no-op.
func (core *Core) Drop(origin Conn, status string) {
	name := core.players.NameOf(origin)
	if name == "" {
		return
	}
	room, _, ok := core.players.Disconnect(name)
	if !ok {
		return
	}
	log.Printf("%s disconnected (%s)", name, status)
	if room != "" {
		m := proto.New(proto.PlayerDisconnected)
		m.Room = room
		m.Set("disconnected_player", name)
		m.Set("status", status)
		core.dispatch(nil, []Outbound{broadcast(room, name, m)})
	}
}

// archive records a finished match, if a database is attached.
func (core *Core) archive(res *gamba.Result) {
	if db := core.st.Database; db != nil {
		db.RecordResult(core.st.Context, res)
	}
}
