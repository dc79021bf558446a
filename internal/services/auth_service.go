package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clients_backend/internal/models"
	"clients_backend/pkg/utils"
)

var ErrTokenGeneration = errors.New("failed to generate token")

const tokenTypeBearer = "Bearer"

// --- AuthService Interface ---
type AuthService interface {
	IssueToken(ctx context.Context, username, password string) (*models.TokenResponseBody, error)
}

// --- authService Implementation ---
type authService struct {
	clientService ClientService
	jwtSecret     []byte
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(clientService ClientService, jwtSecret string, jwtExp time.Duration) AuthService {
	return &authService{
		clientService: clientService,
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: jwtExp,
	}
}

// IssueToken signs an access token for an active client with valid credentials.
func (s *authService) IssueToken(ctx context.Context, username, password string) (*models.TokenResponseBody, error) {
	client, err := s.clientService.FindByCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if !client.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrClientInactive, client.Username)
	}

	token, expiresAt, err := utils.GenerateAccessToken(s.jwtSecret, client.ID, client.Username, s.jwtExpiration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return &models.TokenResponseBody{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresAt:   expiresAt,
	}, nil
}
