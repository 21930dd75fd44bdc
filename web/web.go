// Web interface manager
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

// Package web serves a read-only monitor page over HTTP and,
// optionally, the regular game protocol over websockets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"go-gamba/cmd"
	"go-gamba/server"
)

//go:embed *.tmpl
var html embed.FS

var (
	// Template manager
	tmpl *template.Template

	// Custom template functions
	funcs = template.FuncMap{
		"inc": func(i int) int {
			return i + 1
		},
		"dec": func(i int) int {
			return i - 1
		},
		"timefmt": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			s := time.Since(t).Round(time.Second)
			switch {
			case s < 5*time.Second:
				return "now"
			case s < time.Minute:
				return fmt.Sprintf("%.0fs ago", s.Seconds())
			case s < time.Hour:
				return fmt.Sprintf("%.0fm ago", s.Minutes())
			default:
				return t.Format(time.Stamp)
			}
		},
		"now": func() string {
			return time.Now().Format(time.RFC3339)
		},
	}
)

type web struct {
	st   *cmd.State
	conf *cmd.Conf
	core *server.Core
	mux  *http.ServeMux
}

func (s *web) Start(st *cmd.State, conf *cmd.Conf) {
	s.st = st
	s.conf = conf

	// Prepare HTTP Multiplexer
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /")
	})
	s.mux.HandleFunc("/", s.index)

	// Install the WebSocket handler
	if conf.Web.WebSocket {
		log.Print("Accepting websocket connections on /socket")
		s.mux.HandleFunc("/socket", upgrader(s.core, conf))
	}

	// Parse templates
	tmpl = template.Must(template.New("").Funcs(funcs).ParseFS(html, "*.tmpl"))

	addr := fmt.Sprintf(":%d", conf.Web.Port)
	log.Printf("Listening via HTTP on %s", addr)
	err := http.ListenAndServe(addr, s.mux)
	if err != nil {
		log.Print(err)
	}
}

// The web server can shut down immediately
func (*web) Shutdown() {}

func (*web) String() string { return "Web Server" }

func Register(st *cmd.State, conf *cmd.Conf, core *server.Core) {
	if !conf.Web.Enabled {
		return
	}

	st.Register(&web{core: core})
}
