// Message routing
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
	"strings"
	"time"

	"go-gamba"
	"go-gamba/game"
	"go-gamba/proto"
)

// reserveToken is sent in place of a card list to flip the top
// reserve card.
const reserveToken = "RESERVE"

func errorMsg(text string) *proto.Message {
	return proto.New(proto.Error).Set("error", text)
}

func fail(text string) []Outbound {
	return []Outbound{reply(errorMsg(text))}
}

// Serve routes one frame and sends the resulting plan.  It reports
// whether the connection must be torn down afterwards.
func (core *Core) Serve(origin Conn, line string) bool {
	msg, err := proto.Parse(line)
	if err != nil {
		gamba.Debug.Print(err)
		m := errorMsg("malformed message")
		m.SetBool("disconnect", true)
		core.dispatch(origin, []Outbound{reply(m)})
		return true
	}
	if !msg.Type.Request() {
		// A type a client must never send is a protocol
		// violation, same as an unparsable frame.
		m := errorMsg(fmt.Sprintf("unknown message type %d", msg.Type))
		m.SetBool("disconnect", true)
		core.dispatch(origin, []Outbound{reply(m)})
		return true
	}

	plan := core.handle(origin, msg)
	core.dispatch(origin, plan)
	return disconnects(plan)
}

// handle dispatches to the per-type handler.  A panicking handler
// must never take the worker down; it degrades to a generic error.
func (core *Core) handle(origin Conn, msg *proto.Message) (plan []Outbound) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Handler for %v panicked: %v", msg.Type, r)
			plan = fail("internal server error")
		}
	}()

	switch msg.Type {
	case proto.Connect:
		return core.connect(origin, msg)
	case proto.Reconnect:
		return core.reconnect(origin, msg)
	}

	// Every other request needs an established session.
	name := core.players.NameOf(origin)
	if name == "" {
		return fail("must connect first")
	}

	switch msg.Type {
	case proto.Ping:
		return core.ping(name)
	case proto.JoinRoom:
		return core.joinRoom(name)
	case proto.LeaveRoom:
		return core.leaveRoom(name)
	case proto.StartGame:
		return core.startGame(name)
	case proto.PlayCards:
		return core.playCards(name, msg)
	case proto.PickupPile:
		return core.pickupPile(name)
	default:
		return fail(fmt.Sprintf("unknown message type %d", msg.Type))
	}
}

func validName(name string) bool {
	if name == "" || len(name) > 32 {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}

// senderName extracts the name a CONNECT or RECONNECT talks about.
func senderName(msg *proto.Message) string {
	if name, ok := msg.Get("name"); ok {
		return name
	}
	return msg.Player
}

func (core *Core) connect(origin Conn, msg *proto.Message) []Outbound {
	name := senderName(msg)
	if !validName(name) {
		return fail("invalid player name")
	}
	if err := core.players.Connect(name, origin); err != nil {
		return fail(err.Error())
	}
	if db := core.st.Database; db != nil {
		db.RecordPlayer(core.st.Context, name)
	}
	log.Printf("%s connected", name)

	m := proto.New(proto.Connected)
	m.Player = name
	m.Set("name", name)
	m.Set("status", proto.StatusSuccess)
	return []Outbound{reply(m)}
}

func (core *Core) reconnect(origin Conn, msg *proto.Message) []Outbound {
	name := senderName(msg)
	if err := core.players.Reconnect(name, origin); err != nil {
		return fail(err.Error())
	}
	log.Printf("%s reconnected", name)

	m := proto.New(proto.Connected)
	m.Player = name
	m.Set("name", name)
	m.Set("status", proto.StatusReconnected)
	plan := []Outbound{reply(m)}

	room := core.players.Room(name)
	if room == "" {
		return plan
	}

	var snap *game.Snapshot
	core.rooms.With(room, func(r *Room) error {
		if r.Game.Phase() == game.Active {
			snap = r.Game.Snapshot(name)
		}
		return nil
	})
	if snap != nil {
		plan = append(plan, targeted(name, stateMsg(name, room, snap)))
	}

	b := proto.New(proto.PlayerReconnected)
	b.Room = room
	b.Set("reconnected_player", name)
	b.Set("status", proto.StatusReconnected)
	return append(plan, broadcast(room, name, b))
}

func (core *Core) ping(name string) []Outbound {
	core.players.Touch(name)
	m := proto.New(proto.Pong)
	m.Player = name
	return []Outbound{reply(m)}
}

func (core *Core) joinRoom(name string) []Outbound {
	if core.players.Room(name) != "" {
		return fail("already in a room")
	}

	id, members, full, err := core.rooms.Join(name)
	if err != nil {
		return fail(err.Error())
	}
	core.players.SetRoom(name, id)
	log.Printf("%s joined %s", name, id)

	m := proto.New(proto.RoomJoined)
	m.Player = name
	m.Room = id
	m.Set("players", strings.Join(members, ","))
	m.SetInt("player_count", len(members))
	m.SetBool("room_full", full)

	b := proto.New(proto.RoomJoined)
	b.Room = id
	b.Set("joined_player", name)
	b.Set("players", strings.Join(members, ","))
	b.SetInt("player_count", len(members))
	b.SetBool("room_full", full)
	b.Set("broadcast_type", proto.RoomNotification)

	return []Outbound{reply(m), broadcast(id, name, b)}
}

func (core *Core) leaveRoom(name string) []Outbound {
	room := core.players.Room(name)
	if room == "" {
		return fail("not in a room")
	}

	remaining, ended, winner, err := core.rooms.Leave(room, name)
	if err != nil {
		return fail(err.Error())
	}
	core.players.ClearRoom(name)
	log.Printf("%s left %s", name, room)

	m := proto.New(proto.RoomLeft)
	m.Player = name
	m.Room = room
	m.Set("status", proto.StatusLeft)
	plan := []Outbound{reply(m)}

	if ended {
		core.archive(&gamba.Result{
			Room:   room,
			Winner: winner,
			Loser:  name,
			Reason: proto.ReasonOpponentGone,
			End:    time.Now(),
		})
		return append(plan, core.endRoom(room, remaining, winner,
			proto.ReasonOpponentGone)...)
	}

	if len(remaining) > 0 {
		b := proto.New(proto.RoomLeft)
		b.Room = room
		b.Set("name", name)
		b.Set("status", proto.StatusLeft)
		plan = append(plan, broadcast(room, name, b))
	}
	return plan
}

func (core *Core) startGame(name string) []Outbound {
	room := core.players.Room(name)
	if room == "" {
		return fail("not in a room")
	}

	var (
		members []string
		snaps   map[string]*game.Snapshot
		current string
		top     string
	)
	err := core.rooms.With(room, func(r *Room) error {
		if err := r.Game.Start(); err != nil {
			return err
		}
		members = append([]string(nil), r.Members...)
		snaps = make(map[string]*game.Snapshot, len(members))
		for _, m := range members {
			snaps[m] = r.Game.Snapshot(m)
		}
		current = r.Game.Current()
		if t, ok := r.Game.TopCard(); ok {
			top = t.String()
		}
		return nil
	})
	if err != nil {
		return fail(err.Error())
	}
	log.Printf("Game started in %s by %s", room, name)

	b := proto.New(proto.GameStarted)
	b.Room = room
	b.Set("players", strings.Join(members, ","))
	b.Set("current_player", current)
	b.Set("top_card", top)
	b.Set("status", proto.StatusStarted)

	plan := []Outbound{broadcast(room, "", b)}
	for _, m := range members {
		plan = append(plan, targeted(m, stateMsg(m, room, snaps[m])))
	}
	return plan
}

func (core *Core) playCards(name string, msg *proto.Message) []Outbound {
	room := core.players.Room(name)
	if room == "" {
		return fail("not in a room")
	}

	var (
		played  []gamba.Card
		reserve = false
	)
	if raw := msg.Field("cards"); raw == reserveToken {
		reserve = true
	} else {
		var err error
		played, err = gamba.ParseCards(raw)
		if err != nil {
			return fail("malformed cards")
		}
	}

	var (
		out     *game.Outcome
		members []string
		snaps   map[string]*game.Snapshot
		res     *gamba.Result
	)
	err := core.rooms.With(room, func(r *Room) (err error) {
		g := r.Game
		if reserve {
			out, err = g.PlayReserve(name)
		} else {
			out, err = g.Play(name, played)
		}
		if err != nil {
			return err
		}

		members = append([]string(nil), r.Members...)
		if out.Won {
			res = &gamba.Result{
				Room:   r.Id,
				Winner: out.Winner,
				Reason: proto.StatusGameOver,
				Moves:  g.Moves(),
				Start:  g.Started(),
				End:    time.Now(),
			}
			for _, m := range members {
				if m != out.Winner {
					res.Loser = m
				}
			}
			return nil
		}

		snaps = make(map[string]*game.Snapshot, len(members))
		for _, m := range members {
			snaps[m] = g.Snapshot(m)
		}
		return nil
	})
	if err != nil {
		return fail(err.Error())
	}

	result := proto.ResultPlayed
	if out.PickedUp {
		result = proto.ResultPickedUp
	}
	m := proto.New(proto.TurnResult)
	m.Player = name
	m.Room = room
	m.Set("result", result)
	m.Set("cards", gamba.FormatCards(out.Played))
	plan := []Outbound{reply(m)}

	if out.Won {
		log.Printf("%s won the game in %s", out.Winner, room)
		core.archive(res)
		core.rooms.Destroy(room)
		return append(plan, core.endRoom(room, members, out.Winner,
			proto.StatusGameOver)...)
	}

	for _, member := range members {
		plan = append(plan, targeted(member, stateMsg(member, room, snaps[member])))
	}
	return plan
}

func (core *Core) pickupPile(name string) []Outbound {
	room := core.players.Room(name)
	if room == "" {
		return fail("not in a room")
	}

	var (
		members []string
		snaps   map[string]*game.Snapshot
	)
	err := core.rooms.With(room, func(r *Room) error {
		if err := r.Game.Pickup(name); err != nil {
			return err
		}
		members = append([]string(nil), r.Members...)
		snaps = make(map[string]*game.Snapshot, len(members))
		for _, m := range members {
			snaps[m] = r.Game.Snapshot(m)
		}
		return nil
	})
	if err != nil {
		return fail(err.Error())
	}

	m := proto.New(proto.TurnResult)
	m.Player = name
	m.Room = room
	m.Set("result", proto.ResultPickedUp)
	plan := []Outbound{reply(m)}

	for _, member := range members {
		plan = append(plan, targeted(member, stateMsg(member, room, snaps[member])))
	}
	return plan
}

// endRoom builds the GAME_OVER and ROOM_LEFT notifications for the
// members of a dissolved room and clears their room binding.  The
// room itself must already be gone from the registry.
func (core *Core) endRoom(room string, members []string, winner, reason string) []Outbound {
	var plan []Outbound
	for _, m := range members {
		over := proto.New(proto.GameOver)
		over.Player = m
		over.Room = room
		over.Set("winner", winner)
		over.Set("reason", reason)

		left := proto.New(proto.RoomLeft)
		left.Player = m
		left.Room = room
		left.Set("status", proto.StatusLeft)

		plan = append(plan, targeted(m, over), targeted(m, left))
		core.players.ClearRoom(m)
	}
	return plan
}

// stateMsg renders a snapshot for one viewer.
func stateMsg(viewer, room string, s *game.Snapshot) *proto.Message {
	m := proto.New(proto.GameState)
	m.Player = viewer
	m.Room = room
	m.Set("hand", gamba.FormatCards(s.Hand))
	m.SetInt("reserves", s.Reserves)
	m.Set("top_card", s.TopCard)
	m.Set("current_player", s.Current)
	m.SetBool("your_turn", s.YourTurn)
	m.SetBool("must_play_low", s.MustLow)
	m.SetInt("deck_size", s.DeckSize)
	m.SetInt("discard_pile_size", s.PileSize)
	if len(s.Opponents) > 0 {
		o := s.Opponents[0]
		m.Set("opponent_name", o.Name)
		m.SetInt("opponent_hand", o.Hand)
		m.SetInt("opponent_reserves", o.Reserves)
	}
	return m
}
