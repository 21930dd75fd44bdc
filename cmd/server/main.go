// Entry point
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

package main

import (
	"flag"
	"fmt"
	"os"

	"go-gamba/cmd"
	"go-gamba/db"
	"go-gamba/server"
	"go-gamba/web"
)

func main() {
	flag.Parse()
	if flag.NArg() != 0 {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Too many arguments passed to %s.\nUsage:\n",
			os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load the configuration from disk (if available)
	conf := cmd.LoadConf()
	st := cmd.MakeState()

	// Enable the match archive
	if conf.Database.Enabled {
		db.Register(st, conf)
	}

	// Allow TCP connections and supervise the heartbeats
	core := server.Register(st, conf)

	// Enable the web interface
	web.Register(st, conf, core)

	// Launch the server
	st.Start(conf)
}
