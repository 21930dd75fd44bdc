// Room registry
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
	"fmt"
	"sync"

	"go-gamba"
	"go-gamba/game"
)

const roomCapacity = 2

var (
	ErrServerFull = errors.New("no free room on the server")
	ErrNoRoom     = errors.New("no such room")
)

// Room couples an id and member list with the game it hosts.  Rooms
// are owned exclusively by the registry; handlers get short-lived
// borrowed access through With.
type Room struct {
	Id      string
	Members []string
	Game    *game.Game
}

func (r *Room) others(name string) []string {
	var rest []string
	for _, m := range r.Members {
		if m != name {
			rest = append(rest, m)
		}
	}
	return rest
}

type Rooms struct {
	mu    sync.Mutex
	rooms map[string]*Room
	next  uint
	max   uint
}

func MakeRooms(max uint) *Rooms {
	return &Rooms{
		rooms: make(map[string]*Room),
		max:   max,
	}
}

// Join seats NAME by auto-matchmaking: any room with a free seat and
// a game still waiting is joined, otherwise a new room is opened,
// subject to the room limit.
func (r *Rooms) Join(name string) (id string, members []string, full bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var room *Room
	for _, candidate := range r.rooms {
		if len(candidate.Members) < roomCapacity &&
			candidate.Game.Phase() == game.Waiting {
			room = candidate
			break
		}
	}
	if room == nil {
		if uint(len(r.rooms)) >= r.max {
			return "", nil, false, ErrServerFull
		}
		r.next++
		room = &Room{
			Id:   fmt.Sprintf("ROOM_%d", r.next),
			Game: game.New(),
		}
		r.rooms[room.Id] = room
	}

	room.Members = append(room.Members, name)
	if err := room.Game.AddPlayer(name); err != nil {
		// The member list and the seats are kept in lockstep;
		// a mismatch here is a bug.
		panic(err)
	}

	members = append([]string(nil), room.Members...)
	return room.Id, members, len(room.Members) == roomCapacity, nil
}

// Leave unseats NAME.  A running game ends with the remaining member
// declared winner; an ended or emptied room is destroyed.
func (r *Rooms) Leave(roomId, name string) (remaining []string, ended bool, winner string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomId]
	if !ok {
		return nil, false, "", ErrNoRoom
	}

	remaining = room.others(name)
	room.Members = remaining

	if room.Game.Phase() == game.Active {
		ended = true
		if len(remaining) > 0 {
			winner = remaining[0]
		}
		room.Game.Abort(winner)
	} else {
		room.Game.RemovePlayer(name)
	}

	if ended || len(remaining) == 0 {
		delete(r.rooms, roomId)
	}
	return remaining, ended, winner, nil
}

// With runs F with the room borrowed under the registry lock.  F
// must not perform I/O.
func (r *Rooms) With(id string, f func(*Room) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return ErrNoRoom
	}
	return f(room)
}

// Destroy drops a room unconditionally.
func (r *Rooms) Destroy(id string) {
	r.mu.Lock()
	delete(r.rooms, id)
	r.mu.Unlock()
}

func (r *Rooms) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// Status exposes the registry to the web interface.
func (r *Rooms) Status() []gamba.RoomStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rs []gamba.RoomStatus
	for _, room := range r.rooms {
		rs = append(rs, gamba.RoomStatus{
			Id:      room.Id,
			Members: append([]string(nil), room.Members...),
			Phase:   room.Game.Phase().String(),
		})
	}
	return rs
}
