// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package chat_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/banterchat/banter/internal/auth"
	authmocks "github.com/banterchat/banter/internal/auth/mocks"
	"github.com/banterchat/banter/internal/chat"
	"github.com/banterchat/banter/internal/chat/mocks"
	"github.com/banterchat/banter/pkg/errutil"
)

func TestNewService_NilDependencies(t *testing.T) {
	t.Run("nil message repository", func(t *testing.T) {
		svc, err := chat.NewService(nil, authmocks.NewMockUserRepository(t), nil, nil)
		require.Error(t, err)
		assert.Nil(t, svc)
	})

	t.Run("nil user directory", func(t *testing.T) {
		svc, err := chat.NewService(mocks.NewMockMessageRepository(t), nil, nil, nil)
		require.Error(t, err)
		assert.Nil(t, svc)
	})

	t.Run("nil notifier defaults to nop", func(t *testing.T) {
		svc, err := chat.NewService(mocks.NewMockMessageRepository(t), authmocks.NewMockUserRepository(t), nil, nil)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestService_Send(t *testing.T) {
	ctx := context.Background()
	sender := ulid.Make()
	receiver := ulid.Make()

	t.Run("persists then notifies", func(t *testing.T) {
		messages := mocks.NewMockMessageRepository(t)
		users := authmocks.NewMockUserRepository(t)
		notifier := mocks.NewMockNotifier(t)
		svc, err := chat.NewService(messages, users, notifier, nil)
		require.NoError(t, err)

		users.On("GetByID", mock.Anything, receiver).Return(&auth.User{ID: receiver}, nil)

		var stored *chat.Message
		messages.On("Create", mock.Anything, mock.AnythingOfType("*chat.Message")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*chat.Message) }).
			Return(nil)
		notifier.On("MessageSent", mock.AnythingOfType("*chat.Message")).Return()

		msg, err := svc.Send(ctx, sender, receiver, "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello", msg.Body)
		assert.Equal(t, sender, msg.SenderID)
		assert.Equal(t, receiver, msg.ReceiverID)
		assert.Equal(t, stored, msg)
		notifier.AssertCalled(t, "MessageSent", msg)
	})

	t.Run("empty body fails validation before any lookup", func(t *testing.T) {
		messages := mocks.NewMockMessageRepository(t)
		users := authmocks.NewMockUserRepository(t)
		svc, err := chat.NewService(messages, users, nil, nil)
		require.NoError(t, err)

		_, err = svc.Send(ctx, sender, receiver, "")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "CHAT_VALIDATION")
		users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("oversized body fails validation", func(t *testing.T) {
		messages := mocks.NewMockMessageRepository(t)
		users := authmocks.NewMockUserRepository(t)
		svc, err := chat.NewService(messages, users, nil, nil)
		require.NoError(t, err)

		_, err = svc.Send(ctx, sender, receiver, strings.Repeat("a", 4097))
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "CHAT_VALIDATION")
	})

	t.Run("unknown receiver is rejected", func(t *testing.T) {
		messages := mocks.NewMockMessageRepository(t)
		users := authmocks.NewMockUserRepository(t)
		svc, err := chat.NewService(messages, users, nil, nil)
		require.NoError(t, err)

		users.On("GetByID", mock.Anything, receiver).Return(nil, auth.ErrNotFound)

		_, err = svc.Send(ctx, sender, receiver, "hello")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "CHAT_RECEIVER_NOT_FOUND")
		messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("store failure suppresses the notification", func(t *testing.T) {
		messages := mocks.NewMockMessageRepository(t)
		users := authmocks.NewMockUserRepository(t)
		notifier := mocks.NewMockNotifier(t)
		svc, err := chat.NewService(messages, users, notifier, nil)
		require.NoError(t, err)

		users.On("GetByID", mock.Anything, receiver).Return(&auth.User{ID: receiver}, nil)
		messages.On("Create", mock.Anything, mock.AnythingOfType("*chat.Message")).Return(assert.AnError)

		_, err = svc.Send(ctx, sender, receiver, "hello")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "CHAT_SEND_FAILED")
		notifier.AssertNotCalled(t, "MessageSent", mock.Anything)
	})
}

func TestService_Conversation(t *testing.T) {
	ctx := context.Background()
	alice := ulid.Make()
	bob := ulid.Make()

	t.Run("returns views oldest first", func(t *testing.T) {
		messages := mocks.NewMockMessageRepository(t)
		users := authmocks.NewMockUserRepository(t)
		svc, err := chat.NewService(messages, users, nil, nil)
		require.NoError(t, err)

		first := &chat.Message{ID: ulid.Make(), SenderID: alice, ReceiverID: bob, Body: "hi", CreatedAt: time.Now()}
		second := &chat.Message{ID: ulid.Make(), SenderID: bob, ReceiverID: alice, Body: "hey", CreatedAt: time.Now()}
		messages.On("Conversation", mock.Anything, alice, bob).Return([]*chat.Message{first, second}, nil)

		views, err := svc.Conversation(ctx, alice, bob)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, "hi", views[0].Body)
		assert.Equal(t, alice.String(), views[0].SenderID)
		assert.Equal(t, "hey", views[1].Body)
	})

	t.Run("empty conversation is not an error", func(t *testing.T) {
		messages := mocks.NewMockMessageRepository(t)
		users := authmocks.NewMockUserRepository(t)
		svc, err := chat.NewService(messages, users, nil, nil)
		require.NoError(t, err)

		messages.On("Conversation", mock.Anything, alice, bob).Return(nil, nil)

		views, err := svc.Conversation(ctx, alice, bob)
		require.NoError(t, err)
		assert.Empty(t, views)
	})

	t.Run("wraps repository errors", func(t *testing.T) {
		messages := mocks.NewMockMessageRepository(t)
		users := authmocks.NewMockUserRepository(t)
		svc, err := chat.NewService(messages, users, nil, nil)
		require.NoError(t, err)

		messages.On("Conversation", mock.Anything, alice, bob).Return(nil, assert.AnError)

		_, err = svc.Conversation(ctx, alice, bob)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "CHAT_HISTORY_FAILED")
	})
}
