// Database management
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

// Package db archives players and match results in a SQLite
// database.
package db

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"go-gamba"
	"go-gamba/cmd"
)

//go:embed *.sql
var sql_dir embed.FS

type db struct {
	// The database connections
	read  *sql.DB
	write *sql.DB

	// The SQL statements are loaded from the embedded .sql files.
	// QUERIES are handled by READ, COMMANDS by WRITE.
	queries  map[string]*sql.Stmt
	commands map[string]*sql.Stmt
}

func (db *db) RecordPlayer(ctx context.Context, name string) {
	_, err := db.commands["insert-player"].ExecContext(ctx, name)
	if err != nil {
		log.Print(err)
	}
}

func (db *db) RecordResult(ctx context.Context, res *gamba.Result) {
	var start interface{}
	if !res.Start.IsZero() {
		start = res.Start
	}
	_, err := db.commands["insert-result"].ExecContext(ctx,
		res.Room,
		res.Winner, res.Loser,
		res.Reason, res.Moves,
		start, res.End)
	if err != nil {
		log.Print(err)
	}
}

func (db *db) QueryResults(ctx context.Context, c chan<- *gamba.Result, page int) {
	defer close(c)
	rows, err := db.queries["select-results"].QueryContext(ctx, page)
	if err != nil {
		log.Print(err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var (
			res           gamba.Result
			winner, loser sql.NullString
			start, end    sql.NullTime
		)
		err = rows.Scan(
			&res.Id, &res.Room,
			&winner, &loser,
			&res.Reason, &res.Moves,
			&start, &end)
		if err != nil {
			log.Print(err)
			return
		}
		res.Winner = winner.String
		res.Loser = loser.String
		res.Start = start.Time
		res.End = end.Time

		c <- &res
	}
	if err = rows.Err(); err != nil {
		log.Print(err)
	}
}

func (db *db) Start(st *cmd.State, conf *cmd.Conf) {
	intr := make(chan os.Signal, 1)
	signal.Notify(intr, syscall.SIGUSR1)
	tick := time.NewTicker(24 * time.Hour)
	defer tick.Stop()
	for {
		var err error
		select {
		case <-st.Context.Done():
			return
		case <-intr:
			// https://www.sqlite.org/lang_vacuum.html
			_, err = db.write.Exec("VACUUM;")
		case <-tick.C:
			// https://www.sqlite.org/pragma.html#pragma_optimize
			_, err = db.write.Exec("PRAGMA optimize;")
		}
		if err != nil {
			log.Print(err)
		}
	}
}

func (db *db) Shutdown() {
	var err error

	// https://www.sqlite.org/pragma.html#pragma_optimize
	_, err = db.write.Exec("PRAGMA optimize;")
	if err != nil {
		log.Print(err)
	}

	err = db.write.Close()
	if err != nil {
		log.Print(err)
	}

	err = db.read.Close()
	if err != nil {
		log.Print(err)
	}
}

func (*db) String() string { return "Database Manager" }

// Initialise the database and register the database manager
func Register(st *cmd.State, conf *cmd.Conf) {
	read, err := sql.Open("sqlite3", conf.Database.File)
	if err != nil {
		log.Fatal(err, ": ", conf.Database)
	}
	read.SetConnMaxLifetime(0)
	read.SetMaxIdleConns(1)

	write, err := sql.Open("sqlite3", conf.Database.File)
	if err != nil {
		log.Fatal(err, ": ", conf.Database)
	}
	write.SetConnMaxLifetime(0)
	write.SetMaxIdleConns(1)
	write.SetMaxOpenConns(1)

	db := &db{
		queries:  make(map[string]*sql.Stmt),
		commands: make(map[string]*sql.Stmt),
		write:    write,
		read:     read,
	}

	for _, pragma := range []string{
		// https://www.sqlite.org/pragma.html#pragma_journal_mode
		"journal_mode = WAL",
		// https://www.sqlite.org/pragma.html#pragma_synchronous
		"synchronous = normal",
		// https://www.sqlite.org/pragma.html#pragma_temp_store
		"temp_store = memory",
		// https://www.sqlite.org/pragma.html#pragma_mmap_size
		"mmap_size = 268435456",
		// https://www.sqlite.org/pragma.html#pragma_foreign_keys
		"foreign_keys = on",
	} {
		gamba.Debug.Printf("Run PRAGMA %v", pragma)
		_, err = db.write.Exec("PRAGMA " + pragma + ";")
		if err != nil {
			log.Fatal(err)
		}
	}

	entries, err := sql_dir.ReadDir(".")
	if err != nil {
		log.Fatal(err)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		base := path.Base(entry.Name())
		data, err := fs.ReadFile(sql_dir, entry.Name())
		if err != nil {
			log.Fatal(err)
		}

		if strings.HasPrefix(base, "create-") {
			_, err = db.write.Exec(string(data))
			gamba.Debug.Printf("Executed query %v", base)
		} else {
			query := strings.TrimSuffix(base, ".sql")
			if strings.HasPrefix(query, "select-") {
				db.queries[query], err = db.read.Prepare(string(data))
				gamba.Debug.Printf("Registered query %v", query)
			} else {
				db.commands[query], err = db.write.Prepare(string(data))
				gamba.Debug.Printf("Registered command %v", query)
			}
		}
		if err != nil {
			log.Fatal(entry.Name(), ": ", err)
		}
	}

	if len(db.queries) == 0 {
		panic("No queries loaded")
	}

	st.Register(cmd.Database(db))
}
