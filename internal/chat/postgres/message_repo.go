// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

// Package postgres implements the chat repositories over PostgreSQL.
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/banterchat/banter/internal/chat"
)

// DB is the subset of pgxpool.Pool the repositories need.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MessageRepository implements chat.MessageRepository using PostgreSQL.
type MessageRepository struct {
	db DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create stores a new message.
func (r *MessageRepository) Create(ctx context.Context, msg *chat.Message) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO messages (id, sender_id, receiver_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		msg.ID.String(),
		msg.SenderID.String(),
		msg.ReceiverID.String(),
		msg.Body,
		msg.CreatedAt,
	)
	if err != nil {
		return oops.Code("MESSAGE_CREATE_FAILED").
			With("operation", "insert message").
			With("message_id", msg.ID.String()).
			Wrap(err)
	}
	return nil
}

// Conversation retrieves all messages between the two users, oldest first.
// Ordering by id is insertion order because ids are ULIDs.
func (r *MessageRepository) Conversation(ctx context.Context, a, b ulid.ULID) ([]*chat.Message, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, sender_id, receiver_id, body, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY id
	`, a.String(), b.String())
	if err != nil {
		return nil, oops.Code("MESSAGE_LIST_FAILED").
			With("operation", "query conversation").
			Wrap(err)
	}
	defer rows.Close()

	var msgs []*chat.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, oops.Code("MESSAGE_SCAN_FAILED").
				With("operation", "scan message row").
				Wrap(err)
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("MESSAGE_ROWS_ERROR").
			With("operation", "iterate message rows").
			Wrap(err)
	}
	return msgs, nil
}

func scanMessage(row pgx.Row) (*chat.Message, error) {
	var (
		idStr       string
		senderStr   string
		receiverStr string
		body        string
		createdAt   time.Time
	)
	if err := row.Scan(&idStr, &senderStr, &receiverStr, &body, &createdAt); err != nil {
		return nil, oops.Code("MESSAGE_SCAN_FAILED").Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("MESSAGE_INVALID_ID").With("id", idStr).Wrap(err)
	}
	sender, err := ulid.Parse(senderStr)
	if err != nil {
		return nil, oops.Code("MESSAGE_INVALID_ID").With("sender_id", senderStr).Wrap(err)
	}
	receiver, err := ulid.Parse(receiverStr)
	if err != nil {
		return nil, oops.Code("MESSAGE_INVALID_ID").With("receiver_id", receiverStr).Wrap(err)
	}

	return &chat.Message{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		Body:       body,
		CreatedAt:  createdAt,
	}, nil
}

// Compile-time interface check.
var _ chat.MessageRepository = (*MessageRepository)(nil)
