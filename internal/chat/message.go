// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package chat

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Message is a direct message between two users.
type Message struct {
	ID         ulid.ULID
	SenderID   ulid.ULID
	ReceiverID ulid.ULID
	Body       string
	CreatedAt  time.Time
}

// View is the JSON projection of a Message returned over HTTP and pushed
// over websockets.
type View struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Body       string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

// View returns the wire projection of the message.
func (m *Message) View() View {
	return View{
		ID:         m.ID.String(),
		SenderID:   m.SenderID.String(),
		ReceiverID: m.ReceiverID.String(),
		Body:       m.Body,
		CreatedAt:  m.CreatedAt,
	}
}

// MessageRepository manages message persistence.
type MessageRepository interface {
	// Create stores a new message.
	Create(ctx context.Context, msg *Message) error

	// Conversation retrieves all messages exchanged between the two users,
	// oldest first. ULID ids make insertion order and id order agree.
	Conversation(ctx context.Context, a, b ulid.ULID) ([]*Message, error)
}
