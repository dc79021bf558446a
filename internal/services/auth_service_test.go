package services

import (
	"context"
	"testing"
	"time"

	"clients_backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueToken(t *testing.T) {
	clients, _ := newTestService(nil)
	auth := NewAuthService(clients, "test-secret", time.Hour)
	ctx := context.Background()
	created, err := clients.Save(ctx, yoni())
	require.NoError(t, err)

	tok, err := auth.IssueToken(ctx, "yoni", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)

	claims, err := utils.ValidateToken([]byte("test-secret"), tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.ClientID)

	_, err = auth.IssueToken(ctx, "yoni", "bad-password")
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = clients.ActivateAndDeactivateByID(ctx, created.ID)
	require.NoError(t, err)
	_, err = auth.IssueToken(ctx, "yoni", "secret1")
	assert.ErrorIs(t, err, ErrClientInactive)
}

func TestIssueToken_MissingSecret(t *testing.T) {
	clients, _ := newTestService(nil)
	auth := NewAuthService(clients, "", time.Hour)
	ctx := context.Background()
	_, err := clients.Save(ctx, yoni())
	require.NoError(t, err)

	_, err = auth.IssueToken(ctx, "yoni", "secret1")
	assert.ErrorIs(t, err, ErrTokenGeneration)
}
