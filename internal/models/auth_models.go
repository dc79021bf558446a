package models

import "time"

// TokenResponseBody carries a signed access token for a client.
type TokenResponseBody struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// TokenResponse is the envelope for token issuance.
type TokenResponse struct {
	Body    *TokenResponseBody `json:"body,omitempty"`
	Message string             `json:"message"`
}
