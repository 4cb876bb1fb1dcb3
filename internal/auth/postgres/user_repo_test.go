// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banterchat/banter/internal/auth"
	"github.com/banterchat/banter/internal/auth/postgres"
	"github.com/banterchat/banter/pkg/errutil"
)

var userColumns = []string{
	"id", "username", "full_name", "password_hash", "gender", "profile_pic", "created_at", "updated_at",
}

func testUser() *auth.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &auth.User{
		ID:           ulid.Make(),
		Username:     "alice",
		FullName:     "Alice A",
		PasswordHash: "$2a$10$hash",
		Gender:       auth.GenderFemale,
		ProfilePic:   "https://avatar.iran.liara.run/public/girl?username=alice",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func userRow(u *auth.User) *pgxmock.Rows {
	return pgxmock.NewRows(userColumns).AddRow(
		u.ID.String(), u.Username, u.FullName, u.PasswordHash,
		u.Gender, u.ProfilePic, u.CreatedAt, u.UpdatedAt,
	)
}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts the user", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := postgres.NewUserRepository(mock)
		user := testUser()

		mock.ExpectExec("INSERT INTO users").
			WithArgs(
				user.ID.String(), user.Username, user.FullName, user.PasswordHash,
				user.Gender, user.ProfilePic, user.CreatedAt, user.UpdatedAt,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.Create(ctx, user))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps unique violation to ErrUsernameTaken", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := postgres.NewUserRepository(mock)
		user := testUser()

		mock.ExpectExec("INSERT INTO users").
			WithArgs(
				user.ID.String(), user.Username, user.FullName, user.PasswordHash,
				user.Gender, user.ProfilePic, user.CreatedAt, user.UpdatedAt,
			).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_username_key"})

		err = repo.Create(ctx, user)
		require.Error(t, err)
		require.ErrorIs(t, err, auth.ErrUsernameTaken)
		errutil.AssertErrorCode(t, err, "USER_USERNAME_TAKEN")
		errutil.AssertErrorContext(t, err, "username", "alice")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps other database errors", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := postgres.NewUserRepository(mock)
		user := testUser()

		mock.ExpectExec("INSERT INTO users").
			WithArgs(
				user.ID.String(), user.Username, user.FullName, user.PasswordHash,
				user.Gender, user.ProfilePic, user.CreatedAt, user.UpdatedAt,
			).
			WillReturnError(assert.AnError)

		err = repo.Create(ctx, user)
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrUsernameTaken)
		errutil.AssertErrorCode(t, err, "USER_CREATE_FAILED")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the user", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := postgres.NewUserRepository(mock)
		user := testUser()

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs(user.ID.String()).
			WillReturnRows(userRow(user))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.Username, got.Username)
		assert.Equal(t, user.PasswordHash, got.PasswordHash)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps no rows to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := postgres.NewUserRepository(mock)
		id := ulid.Make()

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(userColumns))

		_, err = repo.GetByID(ctx, id)
		require.Error(t, err)
		require.ErrorIs(t, err, auth.ErrNotFound)
		errutil.AssertErrorCode(t, err, "USER_NOT_FOUND")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the user", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := postgres.NewUserRepository(mock)
		user := testUser()

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("alice").
			WillReturnRows(userRow(user))

		got, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps no rows to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := postgres.NewUserRepository(mock)

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("ghost").
			WillReturnRows(pgxmock.NewRows(userColumns))

		_, err = repo.GetByUsername(ctx, "ghost")
		require.Error(t, err)
		require.ErrorIs(t, err, auth.ErrNotFound)
		errutil.AssertErrorCode(t, err, "USER_NOT_FOUND")
		errutil.AssertErrorContext(t, err, "username", "ghost")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a malformed stored id", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := postgres.NewUserRepository(mock)
		now := time.Now()

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("alice").
			WillReturnRows(pgxmock.NewRows(userColumns).AddRow(
				"not-a-ulid", "alice", "Alice A", "$2a$10$hash",
				auth.GenderFemale, "pic", now, now,
			))

		_, err = repo.GetByUsername(ctx, "alice")
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns everyone except the excluded user", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := postgres.NewUserRepository(mock)
		me := ulid.Make()
		bob := testUser()
		bob.Username = "bob"
		carol := testUser()
		carol.Username = "carol"

		rows := pgxmock.NewRows(userColumns).
			AddRow(bob.ID.String(), bob.Username, bob.FullName, bob.PasswordHash,
				bob.Gender, bob.ProfilePic, bob.CreatedAt, bob.UpdatedAt).
			AddRow(carol.ID.String(), carol.Username, carol.FullName, carol.PasswordHash,
				carol.Gender, carol.ProfilePic, carol.CreatedAt, carol.UpdatedAt)

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs(me.String()).
			WillReturnRows(rows)

		users, err := repo.List(ctx, me)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "bob", users[0].Username)
		assert.Equal(t, "carol", users[1].Username)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := postgres.NewUserRepository(mock)
		me := ulid.Make()

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs(me.String()).
			WillReturnRows(pgxmock.NewRows(userColumns))

		users, err := repo.List(ctx, me)
		require.NoError(t, err)
		assert.Empty(t, users)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps query errors", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := postgres.NewUserRepository(mock)
		me := ulid.Make()

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs(me.String()).
			WillReturnError(assert.AnError)

		_, err = repo.List(ctx, me)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "USER_LIST_FAILED")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
