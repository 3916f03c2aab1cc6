package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"itembuildup/db"
	"itembuildup/internal/audit"
	"itembuildup/internal/auth"
	"itembuildup/internal/config"
	"itembuildup/internal/httpapi"
	"itembuildup/internal/items"
	"itembuildup/internal/lookup"
	"itembuildup/internal/registry"
	"itembuildup/internal/users"
	"itembuildup/pkg/logger"
	"itembuildup/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	pg, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	if cfg.DB.AutoMigrate {
		if err := utils.ApplySchema(rootCtx, pg, db.Statements()); err != nil {
			log.Error("schema apply failed", "err", err)
			os.Exit(1)
		}
		log.Info("schema applied")
	}

	reg, closeRegistry, err := openRegistry(rootCtx, cfg)
	if err != nil {
		log.Error("registry init failed", "backend", cfg.Registry.Backend, "err", err)
		os.Exit(1)
	}
	defer closeRegistry()

	userRepo := users.NewPostgresRepo(pg)
	h := httpapi.Handlers{
		Auth:   auth.NewService(tokens, reg, userRepo, userRepo),
		Users:  users.NewService(userRepo, users.DiskImages{Dir: cfg.Uploads.Dir, URLPrefix: uploadsRoute}),
		Lookup: lookup.NewService(lookup.NewPostgresRepo(pg)),
		Items:  items.NewService(items.NewPostgresRepo(pg)),
		Audit:  audit.NewService(audit.NewPostgresRepo(pg)),
		Cookie: httpapi.CookieOptions{Path: cfg.Auth.CookiePath, Secure: cfg.Auth.CookieSecure},
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(httpapi.CORS(cfg.App.CORSOrigin))

	registerRoutes(r, h, auth.RequireAccessToken(tokens), pg, cfg.Uploads.Dir)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "registry", cfg.Registry.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

// openRegistry builds the refresh token registry selected by REGISTRY_BACKEND.
// The memory backend does not survive restarts and is not shared between
// instances.
func openRegistry(ctx context.Context, cfg config.Config) (registry.Registry, func(), error) {
	switch cfg.Registry.Backend {
	case config.RegistryRedis:
		rdb, err := utils.OpenRedis(ctx, utils.RedisConfig{Addr: cfg.RedisAddr(), Password: cfg.Redis.Password})
		if err != nil {
			return nil, nil, err
		}
		return registry.NewRedis(rdb, cfg.Registry.KeyPrefix), closeRedis(rdb), nil
	default:
		return registry.NewMemory(), func() {}, nil
	}
}

func closeRedis(rdb *redis.Client) func() {
	return func() {
		if err := rdb.Close(); err != nil {
			slog.Warn("redis close failed", "err", err)
		}
	}
}

func healthHandler(pg *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), pg, 2*time.Second); err != nil {
			logger.FromGin(c).Warn("health check failed", "err", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
