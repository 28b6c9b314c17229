package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"bluepink-backend/handlers"
	"bluepink-backend/internal/auth"
	"bluepink-backend/internal/blog"
	"bluepink-backend/internal/cart"
	"bluepink-backend/internal/consul"
	"bluepink-backend/internal/orders"
	"bluepink-backend/internal/products"
	"bluepink-backend/internal/stores/kafka"
	"bluepink-backend/internal/stores/postgres"
	"bluepink-backend/internal/testimonials"
	"bluepink-backend/internal/users"
	"bluepink-backend/pkg/logkey"

	"github.com/joho/godotenv"
)

func main() {
	if err := startApp(); err != nil {
		slog.Error("failed to start app", slog.String(logkey.ERROR, err.Error()))
		os.Exit(1)
	}
}

func startApp() error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Missing .env is fine; containers inject the environment directly.
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment")
	}

	privatePEM, err := os.ReadFile(envDefault("PRIVATE_KEY_PATH", "private.pem"))
	if err != nil {
		return fmt.Errorf("reading private key: %w", err)
	}
	publicPEM, err := os.ReadFile(envDefault("PUBLIC_KEY_PATH", "public.pem"))
	if err != nil {
		return fmt.Errorf("reading public key: %w", err)
	}
	keys, err := auth.NewKeys(privatePEM, publicPEM)
	if err != nil {
		return fmt.Errorf("initializing auth keys: %w", err)
	}

	db, err := postgres.OpenDB()
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	slog.Info("database ready")

	uConf, err := users.NewConf(db)
	if err != nil {
		return err
	}
	pConf, err := products.NewConf(db)
	if err != nil {
		return err
	}
	cConf, err := cart.NewConf(db)
	if err != nil {
		return err
	}
	oConf, err := orders.NewConf(db)
	if err != nil {
		return err
	}
	bConf, err := blog.NewConf(db)
	if err != nil {
		return err
	}
	tConf, err := testimonials.NewConf(db)
	if err != nil {
		return err
	}

	// Kafka is optional: without brokers the service runs and simply does
	// not emit events.
	var kConf *kafka.Conf
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		kConf, err = kafka.NewConf(strings.Split(brokers, ","))
		if err != nil {
			slog.Warn("kafka unavailable, events disabled", slog.String(logkey.ERROR, err.Error()))
			kConf = nil
		} else {
			defer kConf.Close()
		}
	}

	uploadsDir := envDefault("UPLOADS_DIR", "./uploads")
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		return fmt.Errorf("creating uploads dir: %w", err)
	}

	host := envDefault("APP_HOST", "localhost")
	port, err := strconv.Atoi(envDefault("APP_PORT", "8080"))
	if err != nil {
		return fmt.Errorf("parsing APP_PORT: %w", err)
	}
	publicBaseURL := envDefault("PUBLIC_BASE_URL", fmt.Sprintf("http://%s:%d", host, port))

	h := handlers.NewHandler(keys, &uConf, &pConf, &cConf, &oConf, &bConf, &tConf, kConf, uploadsDir, publicBaseURL)
	api := handlers.API(keys, h)

	registerWithConsul(host, port)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      api,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("server listening", slog.Int("port", port))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-shutdownCtx.Done():
		slog.Info("shutdown signal received")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// registerWithConsul is best effort: local development without a consul
// agent should still boot.
func registerWithConsul(host string, port int) {
	client, err := consul.NewClient()
	if err != nil {
		slog.Warn("consul client unavailable", slog.String(logkey.ERROR, err.Error()))
		return
	}
	serviceName := envDefault("SERVICE_NAME", "bluepink-backend")
	if err := consul.RegisterService(client, serviceName, host, port); err != nil {
		slog.Warn("consul registration failed", slog.String(logkey.ERROR, err.Error()))
		return
	}
	slog.Info("registered with consul", slog.String("service", serviceName))
}

func envDefault(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
