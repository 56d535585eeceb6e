package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Service issues anonymous session ids and short-lived tokens bound to
// them. Guest sessions are ephemeral, so tokens live in memory only.
type Service struct {
	tokens     *tokenManager
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New() *Service {
	return &Service{
		tokens:     newTokenManager(),
		accessTTL:  3 * time.Hour,
		refreshTTL: 30 * 24 * time.Hour,
	}
}

// Issue creates a fresh anonymous session and its token pair.
func (s *Service) Issue(_ context.Context) (accessToken, refreshToken, sessionID string, err error) {
	sessionID = uuid.NewString()
	accessToken, err = s.tokens.Issue(sessionID, s.accessTTL)
	if err != nil {
		return "", "", "", err
	}
	refreshToken, err = s.tokens.Issue(sessionID, s.refreshTTL)
	if err != nil {
		return "", "", "", err
	}
	return accessToken, refreshToken, sessionID, nil
}

// Validate resolves a token to its session id.
func (s *Service) Validate(_ context.Context, token string) (string, error) {
	meta, ok := s.tokens.Validate(token)
	if !ok {
		return "", ErrInvalidToken
	}
	return meta.SessionID, nil
}
