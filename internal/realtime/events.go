// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package realtime

import "encoding/json"

// Event names pushed to clients. The values are part of the wire contract
// with the frontend.
const (
	EventNewMessage  = "newMessage"
	EventOnlineUsers = "getOnlineUsers"
)

// Event is the envelope for every websocket push.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func encodeEvent(name string, data any) ([]byte, error) {
	return json.Marshal(Event{Event: name, Data: data}) //nolint:wrapcheck // callers add context
}
