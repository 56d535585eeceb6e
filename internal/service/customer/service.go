package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"milstore/internal/domain"
	custrepo "milstore/internal/repository/customer"
	tokenrepo "milstore/internal/repository/token"

	"golang.org/x/crypto/bcrypt"
)

const (
	accessTTL  = 3 * time.Hour
	refreshTTL = 30 * 24 * time.Hour
)

type Service struct {
	repo   custrepo.Repository
	tokens *tokenManager
}

func New(repo custrepo.Repository, tokens tokenrepo.Repository) *Service {
	return &Service{
		repo:   repo,
		tokens: newTokenManager(tokens),
	}
}

type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Signup registers a new account with a bcrypt password hash.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email required", domain.ErrValidation)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, domain.Customer{
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
	})
}

// Login verifies the credentials and issues an access/refresh token
// pair. Unknown email and wrong password are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, customer *domain.Customer, err error) {
	c, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", "", nil, domain.ErrInvalidCredentials
		}
		return "", "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, domain.ErrInvalidCredentials
	}

	accessToken, err = s.tokens.Issue(ctx, c.ID, "access", accessTTL)
	if err != nil {
		return "", "", nil, err
	}
	refreshToken, err = s.tokens.Issue(ctx, c.ID, "refresh", refreshTTL)
	if err != nil {
		return "", "", nil, err
	}
	return accessToken, refreshToken, c, nil
}

// Validate resolves an access token to the customer id it was issued
// for.
func (s *Service) Validate(ctx context.Context, token string) (int64, bool) {
	meta, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return 0, false
	}
	return meta.CustomerID, true
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}
