package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clients_backend/internal/cache"
	"clients_backend/internal/config"
	"clients_backend/internal/database"
	"clients_backend/internal/repositories"
	"clients_backend/internal/router"
	"clients_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load(os.Getenv("ENV_FILE"))
	if err != nil {
		utils.InitLogger("info", false)
		fatal(err, "Failed to load configuration")
	}

	// Initialize Logger
	utils.InitLogger(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	clientRepo, closeStore := initStore(ctx, cfg.DB)
	defer closeStore()

	clientCache, closeCache := initCache(ctx, cfg.Cache)
	defer closeCache()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"X-Total-Count"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	if err := router.Setup(engine, clientRepo, clientCache, cfg.Auth); err != nil {
		fatal(err, "Failed to set up routes")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{
			"port":         cfg.Port,
			"store":        cfg.DB.Store,
			"cache":        cfg.Cache.Backend,
			"auth_enabled": cfg.Auth.Enabled,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(err, "Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.LogInfo("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server forced to shutdown")
	}
	utils.LogInfo("Server stopped")
}

func initStore(ctx context.Context, dbCfg config.DBConfig) (repositories.ClientRepository, func()) {
	if dbCfg.Store == config.StoreMemory {
		utils.LogInfo("Using in-memory client store, data is lost on restart")
		return repositories.NewMemoryClientRepository(), func() {}
	}

	// Initialize Database
	db, err := database.InitDB(ctx, dbCfg.DSN())
	if err != nil {
		fatal(err, "Failed to initialize database")
	}
	if err := database.RunMigrations(dbCfg.MigrationsPath, dbCfg.URL()); err != nil {
		db.Close()
		fatal(err, "Failed to apply database migrations")
	}
	return repositories.NewClientRepository(db), func() {
		if err := db.Close(); err != nil {
			utils.LogError(err, "Failed to close database")
		}
	}
}

func initCache(ctx context.Context, cacheCfg config.CacheConfig) (cache.Cache, func()) {
	switch cacheCfg.Backend {
	case config.CacheRedis:
		cli, err := cache.NewRedisClient(ctx, cacheCfg.RedisAddr(), cacheCfg.RedisPassword, cacheCfg.RedisDB)
		if err != nil {
			fatal(err, "Failed to connect to Redis")
		}
		return cache.NewRedisCache(cli, cacheCfg.TTL), func() {
			if err := cli.Close(); err != nil {
				utils.LogError(err, "Failed to close Redis client")
			}
		}
	case config.CacheMemory:
		return cache.NewMemoryCache(cacheCfg.TTL), func() {}
	default:
		return cache.Noop{}, func() {}
	}
}

func fatal(err error, message string) {
	utils.LogError(err, message)
	os.Exit(1)
}
