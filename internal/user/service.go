package user

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/MikeMC777/cod-delivery/internal/apperr"
	"github.com/MikeMC777/cod-delivery/internal/auth"
)

type Service struct {
	repo   Repository
	tokens *auth.TokenService
}

func NewService(repo Repository, tokens *auth.TokenService) *Service {
	return &Service{repo: repo, tokens: tokens}
}

func invalidCredentials() error {
	return apperr.New(apperr.KindUnauthorized, apperr.CodeInvalidCredentials, nil)
}

// Login checks the password and issues an access token. Unknown email and
// wrong password are reported the same way.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, ErrNotFound) {
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, req.Password) {
		log.Printf("[user] failed login for %s", u.ID)
		return nil, invalidCredentials()
	}

	token, exp, err := s.tokens.Issue(u.Principal())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &TokenResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: exp, User: *u}, nil
}

// Register creates a customer account. Age verification is granted out of
// band, never at sign-up.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         auth.RoleCustomer,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrAlreadyExist) {
			return nil, apperr.BusinessRule(apperr.CodeEmailTaken, nil)
		}
		return nil, err
	}
	log.Printf("[user] registered %s", u.ID)
	return u, nil
}

func (s *Service) Me(ctx context.Context, p auth.Principal) (*User, error) {
	u, err := s.repo.GetByID(ctx, p.UserID)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound(apperr.CodeUserNotFound, nil)
	}
	return u, err
}
