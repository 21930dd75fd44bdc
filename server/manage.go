// TCP interface
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
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"go-gamba"
	"go-gamba/cmd"
)

type Listener struct {
	core *Core
	conn net.Listener

	mu      sync.Mutex
	clients map[*client]struct{}
}

func (*Listener) String() string { return "TCP Handler" }

func (t *Listener) Start(st *cmd.State, conf *cmd.Conf) {
	addr := fmt.Sprintf("%s:%d", conf.IP, conf.Port)
	var err error
	t.conn, err = net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	t.clients = make(map[*client]struct{})

	log.Printf("Accepting connections on %s", addr)
	for {
		conn, err := t.conn.Accept()
		if err != nil {
			select {
			case <-st.Context.Done():
				return
			default:
				// Persistent accept failures (EMFILE and
				// the like) must not spin the loop hot.
				log.Print(err)
				time.Sleep(100 * time.Millisecond)
				continue
			}
		}
		gamba.Debug.Printf("New connection from %s", conn.RemoteAddr())

		cli := MakeClient(conn, t.core, conf)
		t.mu.Lock()
		t.clients[cli] = struct{}{}
		t.mu.Unlock()
		go func() {
			cli.Handle()
			t.mu.Lock()
			delete(t.clients, cli)
			t.mu.Unlock()
		}()
	}
}

func (t *Listener) Shutdown() {
	if t.conn != nil {
		if err := t.conn.Close(); err != nil {
			log.Print(err)
		}
	}
	t.mu.Lock()
	for cli := range t.clients {
		cli.Kill()
	}
	t.mu.Unlock()
}
