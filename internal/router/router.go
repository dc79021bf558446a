package router

import (
	"fmt"
	"time"

	"clients_backend/internal/cache"
	"clients_backend/internal/config"
	"clients_backend/internal/handlers"
	"clients_backend/internal/middleware"
	"clients_backend/internal/repositories"
	"clients_backend/internal/services"
	"clients_backend/internal/validation"

	"github.com/gin-gonic/gin"
)

const defaultTokenTTL = 72 * time.Hour

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, clientRepo repositories.ClientRepository, clientCache cache.Cache, authCfg config.AuthConfig, opts ...services.ClientServiceOption) error {
	clientValidator, err := validation.NewClientValidator()
	if err != nil {
		return fmt.Errorf("failed to build client validator: %w", err)
	}

	tokenTTL := authCfg.JWTTTL
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}

	// Initialize Services
	clientService := services.NewClientService(clientRepo, clientCache, opts...)
	authService := services.NewAuthService(clientService, authCfg.JWTSecret, tokenTTL)

	// Initialize Handlers
	clientHandler := handlers.NewClientHandler(clientService, clientValidator)
	authHandler := handlers.NewAuthHandler(authService, clientValidator)

	var protect []gin.HandlerFunc
	if authCfg.Enabled {
		protect = append(protect, middleware.AuthMiddleware([]byte(authCfg.JWTSecret)))
	}

	SetupClientRoutes(engine.Group("/client"), clientHandler, authHandler, protect...)
	return nil
}
