package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"tunescout/internal/itunes"
	"tunescout/internal/media"
	"tunescout/internal/search"
	"tunescout/pkg/database"
	"tunescout/pkg/logger"
	"tunescout/pkg/utils"
)

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	cfg := utils.LoadServerConfig()
	if err := logger.Init(logger.Config{Output: "stdout", Level: cfg.LogLevel}); err != nil {
		panic(err)
	}

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		zlog.Fatal().Err(err).Msg("db migrate failed")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(logger.RequestLogger(), gin.Recovery())

	// avoid "trusted all proxies" warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "not_ready",
				"db_error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "db": "ok"})
	})

	// Search pipeline
	repo := media.NewRepo(db)
	cache := search.NewCache(cfg.CacheTTL, nil)
	svc := search.NewService(itunes.NewClient(cfg.ITunesURL), repo, cache)
	search.NewHandler(svc).RegisterRoutes(router.Group("/search"))

	// Browse API over the stored catalog
	media.NewHandler(repo).RegisterRoutes(router.Group("/media"))

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info().Str("addr", cfg.Addr).Msg("HTTP API server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zlog.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		zlog.Error().Err(err).Msg("server error")
	}

	zlog.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("http shutdown error")
	}
	zlog.Info().Msg("server stopped")
}
