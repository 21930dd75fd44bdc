// Heartbeat supervision
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
	"log"
	"time"

	"go-gamba"
	"go-gamba/cmd"
	"go-gamba/proto"
)

// The supervisor patrols the player registry: players that stopped
// pinging become temporarily disconnected, and players gone longer
// than the grace window lose their session and forfeit their game.
type supervisor struct {
	core *Core
	shut chan struct{}
}

func (*supervisor) String() string { return "Heartbeat Supervisor" }

func (s *supervisor) Start(st *cmd.State, conf *cmd.Conf) {
	for {
		select {
		case <-s.shut:
			return
		case <-time.After(conf.Interval()):
		}
		s.tick(conf)
	}
}

func (s *supervisor) Shutdown() {
	close(s.shut)
}

func (s *supervisor) tick(conf *cmd.Conf) {
	core := s.core

	for _, name := range core.players.TimedOut(conf.Timeout()) {
		room, conn, ok := core.players.Disconnect(name)
		if !ok {
			continue
		}
		log.Printf("%s timed out", name)
		if room != "" {
			m := proto.New(proto.PlayerDisconnected)
			m.Room = room
			m.Set("disconnected_player", name)
			m.Set("status", proto.StatusTimedOut)
			core.dispatch(nil, []Outbound{broadcast(room, name, m)})
		}
		if conn != nil {
			conn.Kill()
		}
	}

	for _, name := range core.players.GraceExpired(conf.Grace()) {
		s.expire(name)
	}
}

// expire forfeits a session whose grace window ran out.  Registry
// mutations happen first; the notifications go out after every lock
// is released.
func (s *supervisor) expire(name string) {
	core := s.core
	log.Printf("Grace period of %s expired", name)

	room := core.players.Room(name)
	if room == "" {
		core.players.Remove(name)
		return
	}

	remaining, ended, winner, err := core.rooms.Leave(room, name)
	core.players.Remove(name)
	if err != nil {
		return
	}

	var plan []Outbound
	if ended {
		core.archive(&gamba.Result{
			Room:   room,
			Winner: winner,
			Loser:  name,
			Reason: proto.ReasonOpponentGone,
			End:    time.Now(),
		})
		plan = core.endRoom(room, remaining, winner, proto.ReasonOpponentGone)
	} else if len(remaining) > 0 {
		m := proto.New(proto.RoomLeft)
		m.Room = room
		m.Set("name", name)
		m.Set("status", proto.StatusTimedOut)
		plan = []Outbound{broadcast(room, name, m)}
	}
	core.dispatch(nil, plan)
}
