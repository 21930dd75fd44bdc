// Web request handlers
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

package web

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"go-gamba"
)

const DB_TIMEOUT = 20 * time.Second // arbitrary choice

// Generate the monitor page
func (s *web) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 1
	}

	bg := context.Background()
	ctx, cancel := context.WithTimeout(bg, DB_TIMEOUT)
	defer cancel()

	players := s.core.Players()
	sort.Slice(players, func(i, j int) bool {
		return players[i].Name < players[j].Name
	})
	rooms := s.core.Rooms()
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].Id < rooms[j].Id
	})

	c := make(chan *gamba.Result)
	if s.st.Database != nil {
		go s.st.Database.QueryResults(ctx, c, page-1)
	} else {
		close(c)
	}

	w.Header().Add("Content-Type", "text/html")
	w.Header().Add("Cache-Control", "max-age=10")
	err = tmpl.ExecuteTemplate(w, "index.tmpl", struct {
		Players []gamba.PlayerStatus
		Rooms   []gamba.RoomStatus
		Results chan *gamba.Result
		Page    int
	}{players, rooms, c, page})
	if err != nil {
		log.Print(err)
	}
}
