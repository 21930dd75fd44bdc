// Configuration
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
	"flag"
	"io"
	"log"
	"os"
	"time"

	"go-gamba"

	"github.com/BurntSushi/toml"
)

const defconf = "gamba.toml"

func init() {
	def := &defaultConfig

	flag.StringVar(&def.IP, "ip", def.IP,
		"Address to bind the TCP listener to")
	flag.UintVar(&def.Port, "port", def.Port,
		"Port to use for TCP connections")

	flag.BoolVar(&debug, "debug", debug, "Enable debug output")
	flag.BoolVar(&dump, "dump-config", dump, "Dump configuration to standard output")
	flag.StringVar(&cfile, "config", cfile, "Path to configuration file")
}

type DatabaseConf struct {
	Enabled bool   `toml:"enabled"`
	File    string `toml:"file"`
}

type WebConf struct {
	Enabled   bool `toml:"enabled"`
	Port      uint `toml:"port"`
	WebSocket bool `toml:"websocket"`
}

// Internal representation
type Conf struct {
	IP            string       `toml:"ip"`
	Port          uint         `toml:"port"`
	MaxRooms      uint         `toml:"max_rooms"`
	LogFile       string       `toml:"log_file"`
	FileLogging   bool         `toml:"enable_file_logging"`
	PlayerTimeout uint         `toml:"player_timeout_seconds"`
	CheckInterval uint         `toml:"heartbeat_check_interval"`
	GracePeriod   uint         `toml:"grace_period_seconds"`
	Compact       bool         `toml:"compact_protocol"`
	Database      DatabaseConf `toml:"database"`
	Web           WebConf      `toml:"web"`
}

// Configuration object used by default
var defaultConfig = Conf{
	IP:            "0.0.0.0",
	Port:          10000,
	MaxRooms:      50,
	LogFile:       "gamba.log",
	FileLogging:   false,
	PlayerTimeout: 30,
	CheckInterval: 5,
	GracePeriod:   240,
	Compact:       true,
	Database: DatabaseConf{
		Enabled: true,
		File:    "gamba.db",
	},
	Web: WebConf{
		Enabled:   true,
		Port:      8080,
		WebSocket: true,
	},
}

var (
	debug = false
	dump  = false
	cfile = defconf
)

// Open the configuration file and return it, with command line
// options layered on top
func LoadConf() (c *Conf) {
	c = &defaultConfig
	file, err := os.Open(cfile)
	if err != nil {
		if !os.IsNotExist(err) || cfile != defconf {
			log.Fatal(err)
		}
	} else {
		defer file.Close()
		conf := defaultConfig
		if _, err := toml.NewDecoder(file).Decode(&conf); err != nil {
			log.Print(err)
		} else {
			c = &conf
		}
		// Command line options take priority again
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "ip":
				c.IP = defaultConfig.IP
			case "port":
				c.Port = defaultConfig.Port
			}
		})
	}
	c.validate()

	if debug {
		gamba.Debug.SetOutput(os.Stderr)
		log.Default().SetFlags(log.LstdFlags | log.Lshortfile)
		gamba.Debug.Println("Debug logging has been enabled")
		gamba.Debug.Printf("Configuration: %+v", *c)
	}

	if c.FileLogging {
		f, err := os.OpenFile(c.LogFile,
			os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatal(err)
		}
		log.Default().SetOutput(io.MultiWriter(os.Stderr, f))
	}

	// Dump the configuration onto the disk if requested
	if dump {
		if err := c.Dump(os.Stdout); err != nil {
			log.Fatalln("Failed to dump configuration:", err)
		}
		os.Exit(0)
	}

	return c
}

// Replace nonsensical values by the built-in defaults.
func (c *Conf) validate() {
	warn := func(opt string, got, def uint) {
		log.Printf("Invalid %s %d, falling back to %d", opt, got, def)
	}

	if c.Port == 0 || c.Port > 65535 {
		warn("port", c.Port, defaultConfig.Port)
		c.Port = defaultConfig.Port
	}
	if c.MaxRooms == 0 {
		warn("max_rooms", c.MaxRooms, defaultConfig.MaxRooms)
		c.MaxRooms = defaultConfig.MaxRooms
	}
	if c.PlayerTimeout == 0 {
		warn("player_timeout_seconds", c.PlayerTimeout, defaultConfig.PlayerTimeout)
		c.PlayerTimeout = defaultConfig.PlayerTimeout
	}
	if c.CheckInterval == 0 {
		warn("heartbeat_check_interval", c.CheckInterval, defaultConfig.CheckInterval)
		c.CheckInterval = defaultConfig.CheckInterval
	}
	if c.GracePeriod == 0 {
		warn("grace_period_seconds", c.GracePeriod, defaultConfig.GracePeriod)
		c.GracePeriod = defaultConfig.GracePeriod
	}
}

func (c *Conf) Timeout() time.Duration {
	return time.Duration(c.PlayerTimeout) * time.Second
}

func (c *Conf) Interval() time.Duration {
	return time.Duration(c.CheckInterval) * time.Second
}

func (c *Conf) Grace() time.Duration {
	return time.Duration(c.GracePeriod) * time.Second
}

// Serialise the configuration into a writer
func (c *Conf) Dump(wr io.Writer) error {
	return toml.NewEncoder(wr).Encode(c)
}
