package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/contractor-site-backend/app"
)

func main() {
	log.Info().Msg("Initializing app...")
	ctx := context.Background()

	cfg, err := app.LoadConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}

	currentDB, _, err := app.OpenDatabase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	if err := app.Serve(ctx, cfg, currentDB); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
}
