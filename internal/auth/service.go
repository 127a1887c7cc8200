package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"pfm/internal/core"
	"pfm/internal/storage"
)

// dummySalt keeps the login latency profile of an unknown username close
// to that of a wrong password, so failures do not reveal which usernames
// exist.
var dummySalt = make([]byte, saltLen)

// Service registers and authenticates users.
type Service struct {
	ledger *storage.Ledger
}

func NewService(ledger *storage.Ledger) *Service {
	return &Service{ledger: ledger}
}

// Register creates a new account. Returns core.ErrUsernameTaken when the
// username already exists (case-sensitive exact match).
func (s *Service) Register(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, core.ErrEmptyUsername
	}
	if password == "" {
		return 0, core.ErrEmptyPassword
	}

	existing, err := s.ledger.GetUser(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("look up user: %w", err)
	}
	if existing != nil {
		return 0, core.ErrUsernameTaken
	}

	salt, hash, err := DeriveCredentials(password)
	if err != nil {
		return 0, err
	}

	id, err := s.ledger.CreateUser(ctx, username, salt, hash)
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "User registered", "username", username, "user_id", id)
	return id, nil
}

// Login returns (userID, true) on success. Unknown username and wrong
// password both yield (0, false, nil); the two cases are deliberately
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (int64, bool, error) {
	user, err := s.ledger.GetUser(ctx, strings.TrimSpace(username))
	if err != nil {
		return 0, false, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		deriveHash(password, dummySalt)
		return 0, false, nil
	}
	if !VerifyPassword(password, user.Salt, user.PasswordHash) {
		return 0, false, nil
	}
	return user.ID, true, nil
}
