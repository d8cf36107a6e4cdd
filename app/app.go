// Package app assembles the site backend from configuration: logging,
// database, lead notifications, image generation and the HTTP server.
package app

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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/contractor-site-backend/api"
	"github.com/rpupo63/contractor-site-backend/config"
	"github.com/rpupo63/contractor-site-backend/database"
	"github.com/rpupo63/contractor-site-backend/imagegen"
	"github.com/rpupo63/contractor-site-backend/services"
	"github.com/rpupo63/contractor-site-backend/storage"
)

const shutdownTimeout = 30 * time.Second

// LoadConfig reads the configuration and applies its log level.
func LoadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	SetupLogging(cfg.LogLevel)
	return cfg, nil
}

// SetupLogging sets the global zerolog level. Unknown levels fall back to info.
func SetupLogging(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
}

// OpenDatabase connects and, when DB_AUTO_MIGRATE is set, migrates the schema.
func OpenDatabase(ctx context.Context, cfg *config.Config) (database.Database, *gorm.DB, error) {
	db, err := database.Open(cfg.DB)
	if err != nil {
		return database.Database{}, nil, err
	}
	currentDB := database.New(db)

	if err := currentDB.Ping(ctx); err != nil {
		return database.Database{}, nil, fmt.Errorf("testing database connection: %w", err)
	}
	if cfg.DB.AutoMigrate {
		log.Info().Msg("Migrating schema...")
		if err := currentDB.Migrate(ctx); err != nil {
			return database.Database{}, nil, err
		}
	}
	return currentDB, db, nil
}

// NewImageGenerator builds the image generator, with the LLM prompt enhancer
// when ENHANCE_PROMPTS is set.
func NewImageGenerator(ctx context.Context, cfg config.Images) (*imagegen.Generator, error) {
	var opts []imagegen.Option
	if cfg.EnhancePrompts {
		enhancer, err := imagegen.NewPromptEnhancer(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, imagegen.WithEnhancer(enhancer))
	}
	return imagegen.New(ctx, cfg, opts...)
}

// ServerOptions turns the optional integrations into router options. A
// missing integration is logged and left out.
func ServerOptions(ctx context.Context, cfg *config.Config) []api.Option {
	var opts []api.Option

	notifier := services.NewNotifier(cfg.Notify)
	if notifier.Enabled() {
		opts = append(opts, api.WithNotifier(notifier))
	} else {
		log.Warn().Msg("No lead notification channel configured")
	}

	gen, err := NewImageGenerator(ctx, cfg.Images)
	if err != nil {
		log.Warn().Err(err).Msg("Image generation disabled")
		return opts
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Warn().Err(err).Msg("Image storage disabled, generated images are returned inline")
		return append(opts, api.WithImages(gen, nil))
	}
	if err := store.EnsureBucket(ctx); err != nil {
		log.Warn().Err(err).Str("bucket", store.Bucket()).Msg("Could not verify image bucket")
	}
	return append(opts, api.WithImages(gen, store))
}

// Serve runs the HTTP server until it fails or the process is interrupted,
// then shuts it down gracefully. An interrupt is a clean exit; a listener
// failure is returned.
func Serve(ctx context.Context, cfg *config.Config, currentDB database.Database) error {
	server, err := api.NewServer(cfg, currentDB, ServerOptions(ctx, cfg)...)
	if err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	errChannel := make(chan error, 2)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(shutdownTimeout)

	var sig interruptError
	if errors.Is(fatalErr, http.ErrServerClosed) || errors.As(fatalErr, &sig) {
		return nil
	}
	return fatalErr
}

// interruptError reports the signal that stopped the server.
type interruptError struct {
	sig os.Signal
}

func (e interruptError) Error() string {
	return e.sig.String()
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- interruptError{sig: <-c}
}
