// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

// Package mocks provides testify mocks for the chat package interfaces.
package mocks

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/banterchat/banter/internal/chat"
)

// MockMessageRepository is a mock implementation of chat.MessageRepository.
type MockMessageRepository struct {
	mock.Mock
}

// NewMockMessageRepository creates a MockMessageRepository whose expectations
// are asserted on test cleanup.
func NewMockMessageRepository(t *testing.T) *MockMessageRepository {
	t.Helper()
	m := &MockMessageRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *chat.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) Conversation(ctx context.Context, a, b ulid.ULID) ([]*chat.Message, error) {
	args := m.Called(ctx, a, b)
	if msgs := args.Get(0); msgs != nil {
		return msgs.([]*chat.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockNotifier is a mock implementation of chat.Notifier.
type MockNotifier struct {
	mock.Mock
}

// NewMockNotifier creates a MockNotifier whose expectations are asserted on
// test cleanup.
func NewMockNotifier(t *testing.T) *MockNotifier {
	t.Helper()
	m := &MockNotifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockNotifier) MessageSent(msg *chat.Message) {
	m.Called(msg)
}

// Compile-time interface checks.
var (
	_ chat.MessageRepository = (*MockMessageRepository)(nil)
	_ chat.Notifier          = (*MockNotifier)(nil)
)
