// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package chat

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"

	"github.com/banterchat/banter/internal/auth"
)

var tracer = otel.Tracer("github.com/banterchat/banter/internal/chat")

// maxBodyLength bounds a single message body.
const maxBodyLength = 4096

// UserDirectory resolves message recipients. Satisfied by auth.UserRepository.
type UserDirectory interface {
	GetByID(ctx context.Context, id ulid.ULID) (*auth.User, error)
}

// Notifier receives messages after they are durably persisted. Implementations
// must not block; delivery failures are the notifier's concern.
type Notifier interface {
	MessageSent(msg *Message)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) MessageSent(*Message) {}

// Service provides message sending and conversation history.
type Service struct {
	messages MessageRepository
	users    UserDirectory
	notifier Notifier
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(messages MessageRepository, users UserDirectory, notifier Notifier, logger *slog.Logger) (*Service, error) {
	if messages == nil {
		return nil, oops.Errorf("message repository is required")
	}
	if users == nil {
		return nil, oops.Errorf("user directory is required")
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{messages: messages, users: users, notifier: notifier, logger: logger}, nil
}

// Send persists a message from sender to receiver and notifies the realtime
// layer. The notification fires only after the message is stored.
func (s *Service) Send(ctx context.Context, sender, receiver ulid.ULID, body string) (*Message, error) {
	ctx, span := tracer.Start(ctx, "chat.Send")
	defer span.End()

	if body == "" {
		return nil, oops.Code("CHAT_VALIDATION").Errorf("message body is required")
	}
	if len(body) > maxBodyLength {
		return nil, oops.Code("CHAT_VALIDATION").
			With("length", len(body)).
			Errorf("message body exceeds %d bytes", maxBodyLength)
	}

	if _, err := s.users.GetByID(ctx, receiver); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return nil, oops.Code("CHAT_RECEIVER_NOT_FOUND").
				With("receiver_id", receiver.String()).
				Errorf("receiver not found")
		}
		return nil, oops.Code("CHAT_SEND_FAILED").
			With("operation", "resolve receiver").
			Wrap(err)
	}

	msg := &Message{
		ID:         ulid.Make(),
		SenderID:   sender,
		ReceiverID: receiver,
		Body:       body,
		CreatedAt:  time.Now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, oops.Code("CHAT_SEND_FAILED").
			With("operation", "store message").
			Wrap(err)
	}

	s.notifier.MessageSent(msg)
	s.logger.Debug("message sent",
		"message_id", msg.ID.String(),
		"sender_id", sender.String(),
		"receiver_id", receiver.String())
	return msg, nil
}

// Conversation returns all messages exchanged between the requester and the
// other user, oldest first.
func (s *Service) Conversation(ctx context.Context, requester, other ulid.ULID) ([]View, error) {
	ctx, span := tracer.Start(ctx, "chat.Conversation")
	defer span.End()

	msgs, err := s.messages.Conversation(ctx, requester, other)
	if err != nil {
		return nil, oops.Code("CHAT_HISTORY_FAILED").
			With("operation", "load conversation").
			Wrap(err)
	}
	views := make([]View, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, m.View())
	}
	return views, nil
}
