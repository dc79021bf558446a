package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"clients_backend/internal/middleware"
	"clients_backend/internal/models"
	"clients_backend/internal/repositories"
	"clients_backend/internal/services"
	"clients_backend/internal/validation"
	"clients_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	defaultPageSize = 10
	internalErrMsg  = "Something happened on the server, try again"
)

// ClientHandler holds the client service and request validator.
type ClientHandler struct {
	clientService services.ClientService
	validator     *validation.ClientValidator
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService, v *validation.ClientValidator) *ClientHandler {
	return &ClientHandler{clientService: cs, validator: v}
}

// respondServiceError maps an error from the validation or service layer to
// a status code and the response envelope.
func respondServiceError(c *gin.Context, err error, op string) {
	var dup *repositories.DuplicateKeyError
	switch {
	case errors.Is(err, validation.ErrValidation):
		utils.RespondValidationFailed(c, err.Error(), op)
	case errors.Is(err, services.ErrClientNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), op))
	case errors.As(err, &dup):
		msg := fmt.Sprintf("A client with this %s already exists in the system", dup.Field)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeConflict, msg, dup.Error()))
	case errors.Is(err, services.ErrClientInactive):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Client is inactive", err.Error()))
	default:
		utils.LogError(err, op+": unexpected error")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, internalErrMsg, ""))
	}
}

// logCaller records which authenticated client performed a mutation.
func logCaller(c *gin.Context, op string, targetID int64) {
	callerID, username, ok := middleware.CallerFromContext(c)
	if !ok {
		return
	}
	utils.LogInfo(op+" requested by authenticated client", map[string]interface{}{
		"caller_id":       callerID,
		"caller_username": username,
		"client_id":       targetID,
	})
}

func parseClientID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	clientID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid client ID format", err.Error())
		return 0, false
	}
	return clientID, true
}

func clientResponse(client *models.Client, message string) models.ClientResponse {
	return models.ClientResponse{Body: models.NewClientResponseBody(client), Message: message}
}

func listResponse(clients []models.Client, message string) models.ListClientResponse {
	body := make([]models.ClientResponseBody, 0, len(clients))
	for i := range clients {
		body = append(body, *models.NewClientResponseBody(&clients[i]))
	}
	return models.ListClientResponse{Body: body, Message: message}
}

// SaveClient handles the creation of a new client.
func (h *ClientHandler) SaveClient(c *gin.Context) {
	var req models.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload", err.Error())
		return
	}
	if err := h.validator.ValidateCreateOrUpdate(&req); err != nil {
		respondServiceError(c, err, "SaveClient")
		return
	}

	client, err := h.clientService.Save(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "SaveClient")
		return
	}
	c.JSON(http.StatusOK, clientResponse(client, "Client saved successfully"))
}

// UpdateOrToggleClient serves PUT /client/:id. An empty body toggles the
// active flag; any other body is a full update.
func (h *ClientHandler) UpdateOrToggleClient(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload", err.Error())
		return
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		h.toggleClient(c, clientID)
		return
	}

	var req models.ClientRequest
	if err := binding.JSON.BindBody(raw, &req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload", err.Error())
		return
	}
	h.updateClient(c, clientID, req)
}

func (h *ClientHandler) updateClient(c *gin.Context, clientID int64, req models.ClientRequest) {
	if err := h.validator.ValidateCreateOrUpdate(&req); err != nil {
		respondServiceError(c, err, "UpdateClient")
		return
	}

	client, err := h.clientService.UpdateByID(c.Request.Context(), clientID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateClient")
		return
	}
	logCaller(c, "UpdateClient", clientID)
	c.JSON(http.StatusOK, clientResponse(client, "Client updated successfully"))
}

func (h *ClientHandler) toggleClient(c *gin.Context, clientID int64) {
	client, err := h.clientService.ActivateAndDeactivateByID(c.Request.Context(), clientID)
	if err != nil {
		respondServiceError(c, err, "ToggleClient")
		return
	}
	logCaller(c, "ToggleClient", clientID)
	status := "deactivated"
	if client.IsActive {
		status = "activated"
	}
	c.JSON(http.StatusOK, clientResponse(client, "Client "+status+" successfully"))
}

// GetClientByID handles fetching a single client by ID.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	client, err := h.clientService.FindByID(c.Request.Context(), clientID)
	if err != nil {
		respondServiceError(c, err, "GetClientByID")
		return
	}
	c.JSON(http.StatusOK, clientResponse(client, "Client found successfully"))
}

// HeadClient answers 200 when the client exists and 404 otherwise.
func (h *ClientHandler) HeadClient(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	exists, err := h.clientService.ExistsByID(c.Request.Context(), clientID)
	if err != nil {
		utils.LogError(err, "HeadClient: Error from clientService.ExistsByID")
		c.Status(http.StatusInternalServerError)
		return
	}
	if !exists {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusOK)
}

// FindByUsernameAndPassword resolves a client by its credentials.
func (h *ClientHandler) FindByUsernameAndPassword(c *gin.Context) {
	var req models.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload", err.Error())
		return
	}
	if err := h.validator.ValidateCredentials(&req); err != nil {
		respondServiceError(c, err, "FindByUsernameAndPassword")
		return
	}

	client, err := h.clientService.FindByCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err, "FindByUsernameAndPassword")
		return
	}
	c.JSON(http.StatusOK, clientResponse(client, "Client found successfully"))
}

// GetClients handles fetching all clients.
func (h *ClientHandler) GetClients(c *gin.Context) {
	clients, err := h.clientService.FindAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetClients")
		return
	}
	c.JSON(http.StatusOK, listResponse(clients, "Clients found successfully"))
}

// GetClientsPaged handles fetching one zero-based page of clients.
func (h *ClientHandler) GetClientsPaged(c *gin.Context) {
	page, err := utils.StrToIntDefault(c.Query("page"), 0)
	if err != nil {
		utils.RespondValidationFailed(c, "Page must be a number", err.Error())
		return
	}
	size, err := utils.StrToIntDefault(c.Query("size"), defaultPageSize)
	if err != nil {
		utils.RespondValidationFailed(c, "Size must be a number", err.Error())
		return
	}
	if err := h.validator.ValidatePage(page, size); err != nil {
		respondServiceError(c, err, "GetClientsPaged")
		return
	}

	result, err := h.clientService.FindAllPaged(c.Request.Context(), page, size)
	if err != nil {
		respondServiceError(c, err, "GetClientsPaged")
		return
	}
	c.Header("X-Total-Count", strconv.Itoa(result.Total))
	c.JSON(http.StatusOK, listResponse(result.Clients, "Clients found successfully"))
}

// DeleteClient handles deleting a client.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	if err := h.clientService.DeleteByID(c.Request.Context(), clientID); err != nil {
		respondServiceError(c, err, "DeleteClient")
		return
	}
	logCaller(c, "DeleteClient", clientID)
	c.JSON(http.StatusOK, models.ClientResponse{Message: "Client deleted successfully"})
}
