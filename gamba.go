// Shared types
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

package gamba

import "time"

// Result records a finished match for the archive.
type Result struct {
	Id     int64
	Room   string
	Winner string
	Loser  string
	Reason string
	Moves  uint
	Start  time.Time
	End    time.Time
}

// PlayerStatus is a read-only view of a session record, as exposed
// to the web interface.
type PlayerStatus struct {
	Name      string
	Room      string
	Connected bool
	Gone      bool
	LastPing  time.Time
}

// RoomStatus is a read-only view of a room, as exposed to the web
// interface.
type RoomStatus struct {
	Id      string
	Members []string
	Phase   string
}
