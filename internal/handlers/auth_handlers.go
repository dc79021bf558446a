package handlers

import (
	"net/http"

	"clients_backend/internal/models"
	"clients_backend/internal/services"
	"clients_backend/internal/validation"
	"clients_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
	validator   *validation.ClientValidator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService, v *validation.ClientValidator) *AuthHandler {
	return &AuthHandler{authService: as, validator: v}
}

// IssueToken exchanges client credentials for an access token.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req models.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload", err.Error())
		return
	}
	if err := h.validator.ValidateCredentials(&req); err != nil {
		respondServiceError(c, err, "IssueToken")
		return
	}

	token, err := h.authService.IssueToken(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err, "IssueToken")
		return
	}
	c.JSON(http.StatusOK, models.TokenResponse{Body: token, Message: "Token issued successfully"})
}
