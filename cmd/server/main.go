package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"dlc-report/internal/config"
	"dlc-report/internal/handler"
	"dlc-report/internal/logger"
	"dlc-report/internal/model"
	"dlc-report/internal/service"
	"dlc-report/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)
	ctx := context.Background()

	kv, err := openKV(cfg)
	if err != nil {
		slog.Error("store open failed", "driver", cfg.Store.Driver, "err", err)
		os.Exit(1)
	}
	defer kv.Close()

	store := service.NewStore(kv, model.SeedLGAs)
	if err := store.Load(ctx); err != nil {
		slog.Error("store load failed", "err", err)
		os.Exit(1)
	}

	var catalogSync *service.CatalogSync
	if cfg.MOI.Enabled() {
		raw, err := cfg.NewRawClient()
		if err != nil {
			slog.Warn("sdk client init failed", "err", err)
		} else {
			catalogSync = service.NewCatalogSync(raw, cfg.MOI.DatabaseID, cfg.MOI.ReportsTableID)
			slog.Info("catalog sync enabled", "table", cfg.MOI.ReportsTableID)
		}
	}

	gen, err := newGenerator(ctx, cfg.AI)
	if err != nil {
		slog.Warn("insight generator disabled", "provider", cfg.AI.Provider, "err", err)
	}

	secret := []byte(cfg.Auth.JWTSecret)
	ttl := cfg.Auth.TokenTTL()
	h := handler.Handlers{
		Auth:      handler.NewAuthHandler(service.NewAuthService(store), secret, ttl),
		Roster:    handler.NewRosterHandler(store),
		Report:    handler.NewReportHandler(store, service.NewReportService(store, catalogSync)),
		Dashboard: handler.NewDashboardHandler(store, service.NewInsightService(gen, cfg.AI.Model)),
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-New-Token", "Content-Disposition"},
		AllowCredentials: true,
	}))
	handler.Register(r, h, secret, ttl)

	slog.Info("server starting", "addr", cfg.Addr(), "store", cfg.Store.Driver, "ai", cfg.AI.Provider)
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}

func openKV(cfg *config.Config) (storage.KV, error) {
	switch cfg.Store.Driver {
	case "", "sqlite":
		return storage.OpenSQLite(cfg.Store.Path)
	case "mysql":
		db, err := cfg.OpenGormDB()
		if err != nil {
			return nil, err
		}
		return storage.NewGorm(db)
	case "redis":
		return storage.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
	case "memory":
		return storage.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// newGenerator returns nil when insights are disabled; the insight service
// then answers every request with its fallback text.
func newGenerator(ctx context.Context, ai config.AIConfig) (service.Generator, error) {
	switch ai.Provider {
	case "gemini":
		if ai.APIKey == "" {
			return nil, fmt.Errorf("gemini: api key not set")
		}
		g, err := service.NewGeminiGenerator(ctx, ai.APIKey)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "proxy":
		if ai.BaseURL == "" {
			return nil, fmt.Errorf("proxy: base_url not set")
		}
		return service.NewProxyGenerator(ai.BaseURL, ai.APIKey), nil
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", ai.Provider)
	}
}
