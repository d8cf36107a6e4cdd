package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/contractor-site-backend/config"
	"github.com/rpupo63/contractor-site-backend/database"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(cfg *config.Config, database database.Database, opts ...Option) (Server, error) {
	startupTime := time.Now()

	opts = append([]Option{withConfig(cfg), withStartupTime(startupTime)}, opts...)
	router := newRouter(database, opts...)

	server := &http.Server{
		Addr:         cfg.HTTP.Address(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout(),  // Timeout for reading the entire request
		WriteTimeout: cfg.HTTP.WriteTimeout(), // Timeout for writing the response
		IdleTimeout:  cfg.HTTP.IdleTimeout(),  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

// Option configures the router built by NewServer.
type Option func(*router)

type router struct {
	config      *config.Config
	startupTime time.Time
	notifier    leadNotifier
	images      imageGenerator
	store       imageStore
}

func withConfig(c *config.Config) Option {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) Option {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

// WithNotifier sends new leads to the office.
func WithNotifier(n leadNotifier) Option {
	return func(r *router) {
		r.notifier = n
	}
}

// WithImages enables the admin image generation endpoint. store may be nil,
// in which case images are returned inline.
func WithImages(gen imageGenerator, store imageStore) Option {
	return func(r *router) {
		r.images = gen
		r.store = store
	}
}

func newRouter(database database.Database, opts ...Option) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	if router.config == nil {
		router.config = &config.Config{}
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	handlers := initializeHandlers(database, router)
	authMiddleware := newAuthMiddleware(router.config.Admin.JWTSecret, router.config.Admin.Issuer)

	acceptedOrigins := router.config.HTTP.AcceptedOrigins
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	setupPublicRoutes(chiRouter, handlers)
	setupAdminRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
