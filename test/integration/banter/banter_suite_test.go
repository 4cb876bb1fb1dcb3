// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

//go:build integration

package banter_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/banterchat/banter/internal/auth"
	authpg "github.com/banterchat/banter/internal/auth/postgres"
	"github.com/banterchat/banter/internal/chat"
	chatpg "github.com/banterchat/banter/internal/chat/postgres"
	"github.com/banterchat/banter/internal/realtime"
	"github.com/banterchat/banter/internal/store"
)

func TestBanter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Banter Integration Suite")
}

// testEnv holds all resources needed for integration tests.
type testEnv struct {
	ctx       context.Context
	pool      *pgxpool.Pool
	container testcontainers.Container

	Users    *authpg.UserRepository
	Messages *chatpg.MessageRepository
	Hub      *realtime.Hub
	Auth     *auth.Service
	Chat     *chat.Service
}

var env *testEnv

var _ = BeforeSuite(func() {
	var err error
	env, err = setupTestEnv()
	Expect(err).NotTo(HaveOccurred())
})

var _ = AfterSuite(func() {
	if env != nil {
		env.cleanup()
	}
})

func setupTestEnv() (*testEnv, error) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("banter_test"),
		postgres.WithUsername("banter"),
		postgres.WithPassword("banter"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	migrator, err := store.NewMigrator(connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		_ = container.Terminate(ctx)
		return nil, err
	}
	if err := migrator.Close(); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	pool, err := store.Connect(ctx, connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	logger := slog.Default()
	users := authpg.NewUserRepository(pool)
	messages := chatpg.NewMessageRepository(pool)

	issuer, err := auth.NewTokenIssuer("integration-test-secret", time.Hour)
	if err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, err
	}

	authSvc, err := auth.NewService(users, auth.NewBcryptHasher(), issuer, logger)
	if err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, err
	}

	hub := realtime.NewHub(logger)
	chatSvc, err := chat.NewService(messages, users, hub, logger)
	if err != nil {
		hub.Close()
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &testEnv{
		ctx:       ctx,
		pool:      pool,
		container: container,
		Users:     users,
		Messages:  messages,
		Hub:       hub,
		Auth:      authSvc,
		Chat:      chatSvc,
	}, nil
}

func (e *testEnv) cleanup() {
	if e.Hub != nil {
		e.Hub.Close()
	}
	if e.pool != nil {
		e.pool.Close()
	}
	if e.container != nil {
		_ = e.container.Terminate(e.ctx)
	}
}

// truncateTables resets state between specs.
func truncateTables(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, "TRUNCATE messages, users")
	return err
}
