// Package credstore is the durable credential cache: it holds at most one
// session token and survives process restarts. It performs no network calls
// and no retries; if the underlying storage is unavailable the caller should
// treat that as a fatal startup condition.
package credstore

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophstore/internal/client/repositories/state"
)

const tokenKey = "session.token"

// Store persists the session token across process restarts.
type Store interface {
	// Token returns the cached token, or "" when absent.
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

type stateStore struct {
	repo state.Repository
}

// New returns a Store backed by the local state repository.
func New(repo state.Repository) Store {
	return &stateStore{repo: repo}
}

func (s *stateStore) Token(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, tokenKey)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return string(v), nil
}

func (s *stateStore) SetToken(ctx context.Context, token string) error {
	if err := s.repo.Set(ctx, tokenKey, []byte(token)); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (s *stateStore) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, tokenKey); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
