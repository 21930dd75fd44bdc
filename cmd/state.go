// Shared State
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

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-gamba"
)

// A Manager is one long-running subsystem of the server.  Managers
// are started together and shut down in reverse registration order.
type Manager interface {
	fmt.Stringer
	Start(*State, *Conf)
	Shutdown()
}

// Database is the match history archive.
type Database interface {
	Manager

	// Store interface
	RecordPlayer(context.Context, string)
	RecordResult(context.Context, *gamba.Result)

	// Access interface
	QueryResults(context.Context, chan<- *gamba.Result, int)
}

type State struct {
	Context context.Context
	Kill    context.CancelFunc
	Running bool

	Database Database
	Managers []Manager
}

func MakeState() *State {
	ctx, kill := context.WithCancel(context.Background())
	return &State{
		Context: ctx,
		Kill:    kill,
	}
}

func (st *State) Register(m Manager) {
	if st.Running {
		panic(fmt.Sprintf("Late register: %#v", m))
	}

	if d, ok := m.(Database); ok {
		st.Database = d
	}

	st.Managers = append(st.Managers, m)
}

func (st *State) Start(c *Conf) {
	// Start the service
	for _, m := range st.Managers {
		gamba.Debug.Printf("Starting %s", m)
		go m.Start(st, c)
	}
	st.Running = true

	// Catch an interrupt request...
	intr := make(chan os.Signal, 1)
	signal.Notify(intr, os.Interrupt, syscall.SIGTERM)
	select {
	case <-intr:
		log.Println("Caught interrupt")
	case <-st.Context.Done():
		log.Println("Requested shutdown")
	}
	st.Kill()

	done := make(chan struct{})
	go func() {
		// ...and request all managers to shut down.
		gamba.Debug.Println("Waiting for managers to shutdown...")
		for i := len(st.Managers) - 1; i >= 0; i-- {
			m := st.Managers[i]
			gamba.Debug.Printf("Shutting %s down", m)
			m.Shutdown()
		}
		done <- struct{}{}
	}()

	select {
	case <-intr:
		log.Println("Forced shutdown")
	case <-done:
		log.Println("Shutting down regularly")
	}
}
