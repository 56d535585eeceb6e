package token

import (
	"context"
	"time"
)

// Token is a persisted opaque credential tied to a customer account.
type Token struct {
	Token      string
	CustomerID int64
	Kind       string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

type Repository interface {
	Create(ctx context.Context, token Token) error
	Get(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
}
