package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/contractor-site-backend/config"
)

// Open connects to the Supabase Postgres instance described by cfg. When a
// replica host is configured, reads are routed to it through dbresolver.
func Open(cfg config.Database) (*gorm.DB, error) {
	if cfg.Type != "supa" {
		return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.Type)
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("SUPABASE_DB_HOST is required")
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: cfg.DSN(cfg.Host),
		// Supabase's pooler runs in transaction mode
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if cfg.ReplicaHost != "" {
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  cfg.DSN(cfg.ReplicaHost),
				PreferSimpleProtocol: true,
			})},
			Policy: dbresolver.RandomPolicy{},
		})
		if err := db.Use(resolver); err != nil {
			return nil, fmt.Errorf("registering read replica: %w", err)
		}
	}

	return db, nil
}
