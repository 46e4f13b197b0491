package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"property-financing/internal/api"
	"property-financing/internal/cache"
	"property-financing/internal/engine"
	"property-financing/internal/logging"
	"property-financing/internal/store"
)

func main() {
	// A missing .env is fine; real environment variables always win.
	_ = godotenv.Load()

	env := os.Getenv("API_ENV")
	log, err := logging.New(env, os.Getenv("API_DEBUG") == "true")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if err := run(log, env); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
	log.Info("server exited")
}

func run(log *zap.Logger, env string) error {
	port := getenv("API_PORT", "8080")
	dsn := getenv("STATE_DSN", "sqlite://property-financing.db")
	stateKey := getenv("STATE_KEY", store.DefaultStateKey)

	ttl := cache.DefaultTTL
	if s := os.Getenv("RESULT_CACHE_TTL"); s != "" {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("RESULT_CACHE_TTL: %w", err)
		}
		ttl = parsed
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := store.Open(ctx, dsn)
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer kv.Close()
	log.Info("state store ready", zap.String("dsn", redactDSN(dsn)), zap.String("key", stateKey))

	results := cache.NewResultCache(ttl)
	go results.Run(ctx, time.Minute)

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var origins []string
	if s := os.Getenv("CORS_ORIGINS"); s != "" {
		origins = strings.Split(s, ",")
	}

	router := api.NewRouter(api.Options{
		Store:       store.NewStateStore(kv, log).WithKey(stateKey),
		Engine:      engine.New(),
		Cache:       results,
		Logger:      log,
		CORSOrigins: origins,
		StaticDir:   getenv("STATIC_DIR", "./web/dist"),
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting API server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		log.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// redactDSN hides credentials in redis:// URLs before logging.
func redactDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		return scheme + "://***@" + rest[at+1:]
	}
	return dsn
}
