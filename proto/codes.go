// Compact field codes
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

package proto

// Well-known status and result values.
const (
	StatusSuccess      = "success"
	StatusStarted      = "started"
	StatusLeft         = "left"
	StatusGameOver     = "game_over"
	StatusReconnected  = "reconnected"
	StatusTempGone     = "temporarily_disconnected"
	StatusTimedOut     = "timed_out"
	StatusInvalid      = "invalid_message"
	ResultPlayed       = "play_success"
	ResultPickedUp     = "pickup_success"
	ReasonOpponentGone = "opponent_disconnect"
	RoomNotification   = "room_notification"
)

// compactKeys is the single source of truth for the key
// abbreviations; the inverse views are derived below.
var compactKeys = map[string]string{
	"hand":                "h",
	"reserves":            "r",
	"opponent_hand":       "oh",
	"opponent_reserves":   "or",
	"opponent_name":       "on",
	"top_card":            "tc",
	"discard_pile_size":   "dp",
	"deck_size":           "dk",
	"must_play_low":       "ml",
	"your_turn":           "yt",
	"current_player":      "cp",
	"status":              "st",
	"name":                "nm",
	"error":               "er",
	"result":              "rs",
	"cards":               "cd",
	"winner":              "wn",
	"reconnected_player":  "rp",
	"disconnected_player": "dc",
	"broadcast_type":      "bt",
	"joined_player":       "jp",
	"players":             "pl",
	"player_count":        "pc",
	"room_full":           "rf",
	"disconnect":          "disc",
	"message":             "msg",
	"reason":              "rsn",
}

// Value abbreviations.  Numeric-looking values are never
// substituted in either direction (see numeric in proto.go).
var compactValues = map[string]string{
	StatusTempGone:     "temp",
	StatusReconnected:  "recon",
	StatusSuccess:      "ok",
	StatusGameOver:     "end",
	StatusStarted:      "start",
	StatusLeft:         "lft",
	StatusTimedOut:     "tout",
	StatusInvalid:      "inv",
	ResultPlayed:       "pok",
	ResultPickedUp:     "uok",
	ReasonOpponentGone: "opdc",
	RoomNotification:   "rnotif",
}

var (
	verboseKeys   = make(map[string]string, len(compactKeys))
	verboseValues = make(map[string]string, len(compactValues))
)

func init() {
	for verbose, compact := range compactKeys {
		verboseKeys[compact] = verbose
	}
	for verbose, compact := range compactValues {
		verboseValues[compact] = verbose
	}
}
