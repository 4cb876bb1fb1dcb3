// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package realtime

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/banterchat/banter/internal/chat"
	"github.com/banterchat/banter/internal/observability"
)

// Subscriber abstracts a connected streaming client.
type Subscriber interface {
	Send(payload []byte) error
	Close()
}

// Hub manages subscribers keyed by user id. A user may hold several
// connections (multiple tabs); presence counts users, not connections.
// Every presence change rebroadcasts the full online-user list to everyone,
// and new messages are delivered to the receiving user's connections only.
type Hub struct {
	clients   map[string]map[Subscriber]struct{}
	register  chan subscription
	unreg     chan subscription
	deliver   chan delivery
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

type subscription struct {
	userID string
	client Subscriber
}

type delivery struct {
	userID  string
	event   string
	payload []byte
}

// NewHub creates a Hub and starts its run loop.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{
		clients:  make(map[string]map[Subscriber]struct{}),
		register: make(chan subscription),
		unreg:    make(chan subscription),
		deliver:  make(chan delivery, 64),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		logger:   logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.stopped)
	for {
		select {
		case sub := <-h.register:
			if _, ok := h.clients[sub.userID]; !ok {
				h.clients[sub.userID] = make(map[Subscriber]struct{})
			}
			h.clients[sub.userID][sub.client] = struct{}{}
			h.broadcastPresence()
		case sub := <-h.unreg:
			if clients, ok := h.clients[sub.userID]; ok {
				delete(clients, sub.client)
				if len(clients) == 0 {
					delete(h.clients, sub.userID)
				}
				h.broadcastPresence()
			}
		case d := <-h.deliver:
			h.send(d.userID, d.event, d.payload)
		case <-h.done:
			for _, clients := range h.clients {
				for c := range clients {
					c.Close()
				}
			}
			h.clients = make(map[string]map[Subscriber]struct{})
			return
		}
	}
}

// send pushes a payload to every connection of one user, dropping
// connections that fail.
func (h *Hub) send(userID, event string, payload []byte) {
	clients, ok := h.clients[userID]
	if !ok {
		return
	}
	for c := range clients {
		if err := c.Send(payload); err != nil {
			observability.RecordDeliveryFailure(event)
			c.Close()
			delete(clients, c)
		}
	}
	if len(clients) == 0 {
		delete(h.clients, userID)
	}
}

// broadcastPresence pushes the sorted online-user list to every connection.
func (h *Hub) broadcastPresence() {
	online := make([]string, 0, len(h.clients))
	for userID := range h.clients {
		online = append(online, userID)
	}
	sort.Strings(online)

	payload, err := encodeEvent(EventOnlineUsers, online)
	if err != nil {
		h.logger.Error("encode presence event failed", "error", err)
		return
	}
	for userID := range h.clients {
		h.send(userID, EventOnlineUsers, payload)
	}
}

// Register adds a connection for a user. The online-user list is broadcast
// once the registration is processed.
func (h *Hub) Register(userID string, client Subscriber) {
	select {
	case h.register <- subscription{userID: userID, client: client}:
	case <-h.done:
		client.Close()
	}
}

// Unregister removes a connection.
func (h *Hub) Unregister(userID string, client Subscriber) {
	select {
	case h.unreg <- subscription{userID: userID, client: client}:
	case <-h.done:
	}
}

// MessageSent delivers a stored message to the receiving user's connections.
// Implements chat.Notifier. Senders see their own message from the HTTP
// response, not the socket.
func (h *Hub) MessageSent(msg *chat.Message) {
	payload, err := encodeEvent(EventNewMessage, msg.View())
	if err != nil {
		h.logger.Error("encode message event failed",
			"message_id", msg.ID.String(), "error", err)
		return
	}
	select {
	case h.deliver <- delivery{userID: msg.ReceiverID.String(), event: EventNewMessage, payload: payload}:
	case <-h.done:
	}
}

// Close stops the run loop and closes every connection. Safe to call more
// than once.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
	<-h.stopped
}

// Compile-time interface check.
var _ chat.Notifier = (*Hub)(nil)
