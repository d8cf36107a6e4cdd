package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpupo63/contractor-site-backend/config"
	"github.com/rpupo63/contractor-site-backend/errs"
	"github.com/rpupo63/contractor-site-backend/imagegen"
	"github.com/rpupo63/contractor-site-backend/models"
	"github.com/rpupo63/contractor-site-backend/storage"
)

// imageOutput decides where generated images end up: a local directory,
// the storage bucket, or both.
type imageOutput struct {
	dir    string
	upload bool
	folder string
}

func (o *imageOutput) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.dir, "out", "o", "", "Write images to this directory")
	cmd.Flags().BoolVar(&o.upload, "upload", false, "Upload images to the storage bucket")
	cmd.Flags().StringVar(&o.folder, "folder", "generated", "Bucket folder for uploads")
}

func (o imageOutput) validate() error {
	if o.dir == "" && !o.upload {
		return fmt.Errorf("nothing to do: pass --out, --upload or both")
	}
	return nil
}

func bindOptions(cmd *cobra.Command, opts *imagegen.Options) {
	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "Image model (defaults to IMAGE_MODEL)")
	cmd.Flags().IntVarP(&opts.Samples, "samples", "n", 1, "Images per prompt (1-4)")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "Width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "Height in pixels")
	cmd.Flags().StringVar(&opts.NegativePrompt, "negative", "", "What the image must not contain")
}

func (c *cli) imagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Generate marketing and product images",
	}
	cmd.AddCommand(c.imagesGenerateCmd(), c.imagesBatchCmd(), c.imagesProductCmd())
	return cmd
}

func (c *cli) imagesGenerateCmd() *cobra.Command {
	var (
		prompt string
		opts   imagegen.Options
		output imageOutput
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate images from one prompt",
		Long: `Generate images from one prompt.

Examples:
  sitectl images generate --prompt "modern farmhouse with black windows" --out ./out
  sitectl images generate --prompt "cedar shake siding" --samples 2 --upload --folder siding`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(prompt) == "" {
				return fmt.Errorf("--prompt is required")
			}
			if err := output.validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			_, gen, store, err := c.imageDeps(ctx, output.upload)
			if err != nil {
				return err
			}

			images, err := gen.Generate(ctx, prompt, opts)
			if err != nil {
				return err
			}
			return c.saveImages(ctx, cmd.OutOrStdout(), store, output, "image", images)
		},
	}
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Text prompt")
	bindOptions(cmd, &opts)
	output.bind(cmd)
	return cmd
}

func (c *cli) imagesBatchCmd() *cobra.Command {
	var (
		csvPath     string
		catalogPath string
		concurrency int
		output      imageOutput
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate images for every prompt in a CSV or YAML catalog",
		Long: `Generate images for every prompt in a CSV file or a YAML catalog.

The CSV needs a "prompt" column; "name", "category" and "image_path" are
optional. The YAML catalog lists jobs under "jobs" and may set a shared
"category" and "options".

Examples:
  sitectl images batch --csv prompts.csv --out ./out
  sitectl images batch --catalog catalog.yaml --upload --concurrency 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (csvPath == "") == (catalogPath == "") {
				return fmt.Errorf("pass exactly one of --csv or --catalog")
			}
			if err := output.validate(); err != nil {
				return err
			}
			jobs, err := readJobs(csvPath, catalogPath)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				return fmt.Errorf("no prompts found")
			}

			ctx := cmd.Context()
			cfg, gen, store, err := c.imageDeps(ctx, output.upload)
			if err != nil {
				return err
			}
			if concurrency < 1 {
				concurrency = cfg.Images.BatchConcurrent
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generating %d jobs, %d at a time\n", len(jobs), concurrency)
			results := imagegen.Batch(ctx, gen, jobs, concurrency)
			failed := imagegen.Failed(results)
			for _, res := range results {
				if res.Err != nil {
					fmt.Fprintf(out, "FAIL %s: %v\n", res.Job.Name, res.Err)
					continue
				}
				name := res.Job.Name
				if res.Job.ImagePath != "" {
					name = strings.TrimSuffix(res.Job.ImagePath, filepath.Ext(res.Job.ImagePath))
				}
				jobOutput := output
				if res.Job.Category != "" && output.upload {
					jobOutput.folder = output.folder + "/" + res.Job.Category
				}
				if err := c.saveImages(ctx, out, store, jobOutput, name, res.Images); err != nil {
					fmt.Fprintf(out, "FAIL %s: %v\n", res.Job.Name, err)
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d jobs failed", failed, len(results))
			}
			fmt.Fprintf(out, "All %d jobs succeeded\n", len(results))
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV file of prompts")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML catalog of prompts")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "Parallel generations (defaults to IMAGE_BATCH_CONCURRENCY)")
	output.bind(cmd)
	return cmd
}

func (c *cli) imagesProductCmd() *cobra.Command {
	var (
		slug string
		opts imagegen.Options
	)
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Generate catalog images for a product and attach them",
		RunE: func(cmd *cobra.Command, args []string) error {
			if slug == "" {
				return fmt.Errorf("--slug is required")
			}
			ctx := cmd.Context()
			cfg, gen, store, err := c.imageDeps(ctx, true)
			if err != nil {
				return err
			}
			cfg.DB.AutoMigrate = false
			currentDB, _, err := c.openDB(ctx, cfg)
			if err != nil {
				return err
			}

			products := currentDB.ProductRepo()
			product, err := products.FindBySlug(ctx, slug)
			if errs.IsNotFound(err) {
				return fmt.Errorf("product %q not found", slug)
			}
			if err != nil {
				return err
			}
			if err := product.ValidateImages(); err != nil {
				return err
			}
			prompt := imagegen.ProductPrompt(product.Name, deref(product.Description), product.Category)
			images, err := gen.Generate(ctx, prompt, opts)
			if err != nil {
				return err
			}

			uploaded, err := store.UploadImages(ctx, "products/"+product.Slug, storageImages(product.Slug, images))
			if err != nil {
				return err
			}
			p := *product
			for _, u := range uploaded {
				next, err := p.WithImage(u.URL)
				if err != nil {
					return err
				}
				p.Images = next
			}
			if _, err := products.Update(ctx, p.ID, models.ProductUpdate{Images: &p.Images}); err != nil {
				return err
			}
			for _, u := range uploaded {
				fmt.Fprintln(cmd.OutOrStdout(), u.URL)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Attached %d images to %s\n", len(uploaded), product.Slug)
			return nil
		},
	}
	cmd.Flags().StringVar(&slug, "slug", "", "Product slug")
	bindOptions(cmd, &opts)
	return cmd
}

// imageDeps loads config and builds the generator, plus the store when
// needStore is set.
func (c *cli) imageDeps(ctx context.Context, needStore bool) (*config.Config, imageGenerator, imageStore, error) {
	cfg, err := c.loadConfig(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	gen, err := c.newGenerator(ctx, cfg.Images)
	if err != nil {
		return nil, nil, nil, err
	}
	if !needStore {
		return cfg, gen, nil, nil
	}
	store, err := c.newStore(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, gen, store, nil
}

// saveImages writes images under output.dir as <name>-<id><ext> and uploads
// them when requested, printing one line per file.
func (c *cli) saveImages(ctx context.Context, w io.Writer, store imageStore, output imageOutput, name string, images []imagegen.Image) error {
	files := storageImages(name, images)

	if output.dir != "" {
		if err := os.MkdirAll(output.dir, 0o755); err != nil {
			return err
		}
		for _, f := range files {
			path := filepath.Join(output.dir, f.Name)
			if err := os.WriteFile(path, f.Data, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(w, path)
		}
	}

	if output.upload {
		uploaded, err := store.UploadImages(ctx, output.folder, files)
		if err != nil {
			return err
		}
		for _, u := range uploaded {
			fmt.Fprintln(w, u.URL)
		}
	}
	return nil
}

// storageImages names each file after name and the image ID, so repeated
// runs never reuse an object key.
func storageImages(name string, images []imagegen.Image) []storage.Image {
	name = fileSafe(name)
	files := make([]storage.Image, len(images))
	for i, img := range images {
		id := img.ID
		if len(id) > 8 {
			id = id[:8]
		}
		files[i] = storage.Image{
			Name:     fmt.Sprintf("%s-%s%s", name, id, storage.ExtensionFor(img.MimeType)),
			Data:     img.Data,
			MimeType: img.MimeType,
		}
	}
	return files
}

func readJobs(csvPath, catalogPath string) ([]imagegen.Job, error) {
	path := csvPath
	if path == "" {
		path = catalogPath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if csvPath != "" {
		return imagegen.ReadJobsCSV(f)
	}
	return imagegen.ReadCatalog(f)
}

func fileSafe(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ', r == '/', r == '.':
			return '-'
		}
		return -1
	}, name)
	if name == "" {
		return "image"
	}
	return name
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
