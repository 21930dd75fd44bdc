// Client workers
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
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"go-gamba"
	"go-gamba/cmd"
	"go-gamba/proto"
)

// maxFrame caps a buffered, unterminated line; beyond it the client
// is disconnected.
const maxFrame = 8 * 1024

// client wraps one connection.  It works the same over TCP and over
// the websocket adapter, anything that reads and writes bytes.
type client struct {
	core *Core
	conf *cmd.Conf
	rwc  io.ReadWriteCloser

	// iolock serializes writes so that frames sent by other
	// workers (broadcasts, targeted messages) never interleave
	// with ours on the wire.
	iolock sync.Mutex
	once   sync.Once
}

func MakeClient(rwc io.ReadWriteCloser, core *Core, conf *cmd.Conf) *client {
	return &client{core: core, conf: conf, rwc: rwc}
}

func (cli *client) String() string {
	return fmt.Sprintf("%p", cli.rwc)
}

// Send writes one frame.  The serialized line and its terminator go
// out in a single write under the I/O lock.
func (cli *client) Send(m *proto.Message) error {
	line := m.Serialize(cli.conf.Compact)
	gamba.Debug.Println(cli, ">", line)

	cli.iolock.Lock()
	defer cli.iolock.Unlock()
	_, err := io.WriteString(cli.rwc, line+"\n")
	return err
}

// Kill closes the connection, waking the reader.
func (cli *client) Kill() {
	cli.once.Do(func() {
		if err := cli.rwc.Close(); err != nil {
			gamba.Debug.Print(err)
		}
	})
}

// Handle reads frames until the peer goes away or the router
// requests a teardown, then runs the disconnect lifecycle.
func (cli *client) Handle() {
	defer cli.Kill()

	scanner := bufio.NewScanner(cli.rwc)
	scanner.Buffer(make([]byte, 0, 1024), maxFrame)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line == "\r" {
			continue
		}
		gamba.Debug.Println(cli, "<", line)
		if cli.core.Serve(cli, line) {
			cli.core.Drop(cli, proto.StatusInvalid)
			return
		}
	}

	status := proto.StatusTempGone
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			// An unterminated frame beyond the limit is a
			// protocol violation, not a network accident.
			status = proto.StatusInvalid
		} else if !strings.Contains(err.Error(), "use of closed network connection") {
			log.Print(err)
		}
	}
	cli.core.Drop(cli, status)
}
