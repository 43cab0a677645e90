package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/config"
	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/handler"
	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/repository"
	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/usecase"
	"github.com/vasapolrittideah/todo-api/shared/auth"
	"github.com/vasapolrittideah/todo-api/shared/logger"
	"github.com/vasapolrittideah/todo-api/shared/security"
	"github.com/vasapolrittideah/todo-api/shared/validator"
)

func main() {
	bootLogger := logger.NewLogger("info", false)
	cfg := config.NewTodoServiceConfig(bootLogger)

	appLogger := logger.NewLogger(cfg.Log.Level, cfg.Log.Pretty).
		With().Str("service", "todo-service").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, &appLogger, cfg)
	if err != nil {
		appLogger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := store.Close(closeCtx); err != nil {
			appLogger.Error().Err(err).Msg("failed to close store")
		}
	}()

	hasher, err := security.NewPasswordHasher(cfg.PasswordHasher)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to create password hasher")
	}

	validate := validator.New()
	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Secret, cfg.Token.Issuer)

	router := handler.NewRouter(handler.RouterParams{
		UserUsecase: usecase.NewUserUsecase(store.Users, hasher, jwtAuth, validate),
		TodoUsecase: usecase.NewTodoUsecase(store.Todos, validate),
		Store:       store,
		Validator:   validate,
		Logger:      &appLogger,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ErrorLog:     log.New(appLogger.With().Str("component", "http").Logger(), "", 0),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info().Int("port", cfg.Port).Str("driver", cfg.StoreDriver).Msg("todo service listening")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error().Err(err).Msg("http server stopped")
		}
		return
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("failed to shut down http server")
	}
}

func newStore(ctx context.Context, logger *zerolog.Logger, cfg *config.TodoServiceConfig) (*repository.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warn().Msg("using in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), nil
	default:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		return repository.NewMongoStore(connectCtx, logger, cfg.Mongo.URI, cfg.Mongo.Database)
	}
}
