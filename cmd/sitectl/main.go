// Command sitectl runs and administers the contractor site backend.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/rpupo63/contractor-site-backend/app"
	"github.com/rpupo63/contractor-site-backend/config"
	"github.com/rpupo63/contractor-site-backend/database"
	"github.com/rpupo63/contractor-site-backend/imagegen"
	"github.com/rpupo63/contractor-site-backend/storage"
)

type imageGenerator interface {
	Generate(ctx context.Context, prompt string, opts imagegen.Options) ([]imagegen.Image, error)
}

type imageStore interface {
	UploadImages(ctx context.Context, folder string, imgs []storage.Image) ([]storage.Uploaded, error)
}

// cli carries the constructors every command uses, so tests can swap them.
type cli struct {
	out          io.Writer
	loadConfig   func(ctx context.Context) (*config.Config, error)
	openDB       func(ctx context.Context, cfg *config.Config) (database.Database, *gorm.DB, error)
	newGenerator func(ctx context.Context, cfg config.Images) (imageGenerator, error)
	newStore     func(ctx context.Context, cfg config.Storage) (imageStore, error)
}

func defaultCLI() *cli {
	return &cli{
		out:        os.Stdout,
		loadConfig: app.LoadConfig,
		openDB:     app.OpenDatabase,
		newGenerator: func(ctx context.Context, cfg config.Images) (imageGenerator, error) {
			return app.NewImageGenerator(ctx, cfg)
		},
		newStore: func(ctx context.Context, cfg config.Storage) (imageStore, error) {
			store, err := storage.New(ctx, cfg)
			if err != nil {
				return nil, err
			}
			if err := store.EnsureBucket(ctx); err != nil {
				return nil, err
			}
			return store, nil
		},
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sitectl",
		Short:         "Run and administer the contractor site backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.out)
	root.AddCommand(
		c.serveCmd(),
		c.dbCmd(),
		c.leadsCmd(),
		c.imagesCmd(),
		c.tokenCmd(),
	)
	return root
}

func main() {
	if err := defaultCLI().rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
