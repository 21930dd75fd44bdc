// Player registry
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
	"time"

	"go-gamba"
)

var (
	ErrNameTaken     = errors.New("name already in use")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrNotGone       = errors.New("player is still connected")
)

// Player is one session record.  The connection handle is
// non-owning: closing the socket is always the worker's duty.
type Player struct {
	Name      string
	Room      string
	Gone      bool // temporarily disconnected
	GoneSince time.Time

	conn Conn
}

// Registry maps names to session records and sockets to names.
// Both maps live under one lock so that a live socket always
// belongs to a connected player.  Ping timestamps have their own
// lock to keep the keepalive hot path off the session records.
type Registry struct {
	mu     sync.Mutex
	byName map[string]*Player
	byConn map[Conn]string

	pingMu sync.Mutex
	ping   map[string]time.Time
}

func MakeRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Player),
		byConn: make(map[Conn]string),
		ping:   make(map[string]time.Time),
	}
}

// Connect creates a fresh session.  Names are never recycled
// implicitly: a taken name fails even if its player is gone.
func (r *Registry) Connect(name string, c Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; ok {
		return ErrNameTaken
	}
	r.byName[name] = &Player{Name: name, conn: c}
	r.byConn[c] = name
	r.Touch(name)
	return nil
}

// Reconnect rebinds a temporarily disconnected session to a new
// socket.
func (r *Registry) Reconnect(name string, c Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byName[name]
	if !ok {
		return ErrUnknownPlayer
	}
	if !p.Gone {
		return ErrNotGone
	}
	p.Gone = false
	p.conn = c
	r.byConn[c] = name
	r.Touch(name)
	return nil
}

// Disconnect marks NAME temporarily gone and releases the socket
// binding.  It returns the player's room and former connection; OK
// is false if the player was already gone or unknown.
func (r *Registry) Disconnect(name string) (room string, c Conn, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, found := r.byName[name]
	if !found || p.Gone {
		return "", nil, false
	}
	c = p.conn
	p.conn = nil
	p.Gone = true
	p.GoneSince = time.Now()
	if c != nil {
		delete(r.byConn, c)
	}
	return p.Room, c, true
}

// Remove destroys a session record.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	if p, ok := r.byName[name]; ok {
		if p.conn != nil {
			delete(r.byConn, p.conn)
		}
		delete(r.byName, name)
	}
	r.mu.Unlock()

	r.pingMu.Lock()
	delete(r.ping, name)
	r.pingMu.Unlock()
}

// NameOf resolves a socket to its player, or "".
func (r *Registry) NameOf(c Conn) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byConn[c]
}

// ConnOf returns the live socket of NAME, if any.
func (r *Registry) ConnOf(name string) (Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byName[name]
	if !ok || p.conn == nil {
		return nil, false
	}
	return p.conn, true
}

// Get returns a copy of the session record.
func (r *Registry) Get(name string) (Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byName[name]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

func (r *Registry) SetRoom(name, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byName[name]; ok {
		p.Room = room
	}
}

func (r *Registry) Room(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byName[name]; ok {
		return p.Room
	}
	return ""
}

func (r *Registry) ClearRoom(name string) {
	r.SetRoom(name, "")
}

// Touch stamps NAME's last ping.
func (r *Registry) Touch(name string) {
	r.pingMu.Lock()
	r.ping[name] = time.Now()
	r.pingMu.Unlock()
}

// TimedOut lists connected players whose last ping is older than
// TIMEOUT.
func (r *Registry) TimedOut(timeout time.Duration) []string {
	cutoff := time.Now().Add(-timeout)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.pingMu.Lock()
	defer r.pingMu.Unlock()

	var names []string
	for name, p := range r.byName {
		if !p.Gone && r.ping[name].Before(cutoff) {
			names = append(names, name)
		}
	}
	return names
}

// GraceExpired lists gone players whose disconnection is older than
// GRACE.
func (r *Registry) GraceExpired(grace time.Duration) []string {
	cutoff := time.Now().Add(-grace)

	r.mu.Lock()
	defer r.mu.Unlock()

	var names []string
	for name, p := range r.byName {
		if p.Gone && p.GoneSince.Before(cutoff) {
			names = append(names, name)
		}
	}
	return names
}

// MembersOf lists all players whose session is in ROOM.
func (r *Registry) MembersOf(room string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var names []string
	for name, p := range r.byName {
		if p.Room == room {
			names = append(names, name)
		}
	}
	return names
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byName)
}

// Status exposes the registry to the web interface.
func (r *Registry) Status() []gamba.PlayerStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pingMu.Lock()
	defer r.pingMu.Unlock()

	var ps []gamba.PlayerStatus
	for name, p := range r.byName {
		ps = append(ps, gamba.PlayerStatus{
			Name:      name,
			Room:      p.Room,
			Connected: p.conn != nil,
			Gone:      p.Gone,
			LastPing:  r.ping[name],
		})
	}
	return ps
}
