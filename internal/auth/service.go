// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/banterchat/banter/internal/auth")

// Service provides the signup and login flows.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens *TokenIssuer
	logger *slog.Logger
}

// NewService creates a new Service.
func NewService(users UserRepository, hasher PasswordHasher, tokens *TokenIssuer, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, logger: logger}, nil
}

// SignupParams carries the signup input. All fields are required.
type SignupParams struct {
	FullName        string `json:"fullName"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Gender          string `json:"gender"`
}

// Signup registers a new user and returns the created record with a session
// token. The token is issued only after the record is durably persisted, so
// a client can never hold a valid session for a user that does not exist.
// Username uniqueness is enforced by the database unique constraint; a
// violation surfaces as AUTH_CONFLICT.
func (s *Service) Signup(ctx context.Context, p SignupParams) (*User, string, error) {
	ctx, span := tracer.Start(ctx, "auth.Signup")
	defer span.End()

	if p.FullName == "" || p.Username == "" || p.Password == "" || p.ConfirmPassword == "" || p.Gender == "" {
		return nil, "", oops.Code("AUTH_VALIDATION").Errorf("all fields are required")
	}
	if p.Password != p.ConfirmPassword {
		return nil, "", oops.Code("AUTH_VALIDATION").Errorf("passwords do not match")
	}

	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, "", oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	now := time.Now()
	user := &User{
		ID:           ulid.Make(),
		Username:     p.Username,
		FullName:     p.FullName,
		PasswordHash: hash,
		Gender:       p.Gender,
		ProfilePic:   DeriveAvatarURL(p.Username, p.Gender),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, "", oops.Code("AUTH_CONFLICT").Errorf("Username already exists")
		}
		return nil, "", oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "create user").
			With("username", p.Username).
			Wrap(err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "issue session token").
			Wrap(err)
	}

	s.logger.Info("user registered", "user_id", user.ID.String(), "username", user.Username)
	return user, token, nil
}

// Login authenticates a user and returns the record with a session token.
// An unknown username and a wrong password produce the same error, code and
// message both, so the endpoint cannot be used to enumerate accounts. The
// password comparison runs even when the user does not exist.
func (s *Service) Login(ctx context.Context, username, password string) (*User, string, error) {
	ctx, span := tracer.Start(ctx, "auth.Login")
	defer span.End()

	user, lookupErr := s.users.GetByUsername(ctx, username)

	targetHash := dummyPasswordHash
	userExists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by username").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return nil, "", invalidCredentials()
		}
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}
	if !userExists || !valid {
		return nil, "", invalidCredentials()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue session token").
			Wrap(err)
	}

	s.logger.Info("user logged in", "user_id", user.ID.String())
	return user, token, nil
}

// Authenticate verifies a session token and loads the user it identifies.
// Used by the HTTP middleware guarding protected routes.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("AUTH_TOKEN_INVALID").Errorf("unknown user")
		}
		return nil, oops.Code("AUTH_LOOKUP_FAILED").
			With("operation", "get user by id").
			Wrap(err)
	}
	return user, nil
}

// ListOthers returns the public profiles of every user except the requester.
func (s *Service) ListOthers(ctx context.Context, requester ulid.ULID) ([]Profile, error) {
	users, err := s.users.List(ctx, requester)
	if err != nil {
		return nil, oops.Code("AUTH_LIST_FAILED").
			With("operation", "list users").
			Wrap(err)
	}
	profiles := make([]Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

func invalidCredentials() error {
	return oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("Invalid username or password")
}
