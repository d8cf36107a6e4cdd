package imagegen

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Job is one prompt of a batch run.
type Job struct {
	Name      string  `yaml:"name" json:"name"`
	Prompt    string  `yaml:"prompt" json:"prompt"`
	Category  string  `yaml:"category,omitempty" json:"category,omitempty"`
	ImagePath string  `yaml:"image_path,omitempty" json:"image_path,omitempty"`
	Options   Options `yaml:"options,omitempty" json:"options,omitempty"`
}

type Result struct {
	Job    Job
	Images []Image
	Err    error
}

type generator interface {
	Generate(ctx context.Context, prompt string, opts Options) ([]Image, error)
}

// Batch runs jobs with at most concurrency calls in flight. A failed job is
// reported in its Result and does not stop the others. Results keep the
// order of jobs.
func Batch(ctx context.Context, gen generator, jobs []Job, concurrency int) []Result {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]Result, len(jobs))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			results[i].Job = job
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			images, err := gen.Generate(ctx, job.Prompt, job.Options)
			results[i].Images = images
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Failed counts the results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// ReadJobsCSV reads jobs from a CSV with a required prompt column and
// optional name, image_path and category columns.
func ReadJobsCSV(r io.Reader) ([]Job, error) {
	df := dataframe.ReadCSV(r, dataframe.DetectTypes(false))
	if df.Err != nil {
		return nil, fmt.Errorf("failed to read jobs CSV: %w", df.Err)
	}

	has := map[string]bool{}
	for _, name := range df.Names() {
		has[name] = true
	}
	if !has["prompt"] {
		return nil, fmt.Errorf("jobs CSV has no prompt column")
	}

	column := func(name string) []string {
		if !has[name] {
			return make([]string, df.Nrow())
		}
		return df.Col(name).Records()
	}
	prompts := column("prompt")
	names := column("name")
	paths := column("image_path")
	categories := column("category")

	jobs := make([]Job, 0, len(prompts))
	for i, prompt := range prompts {
		prompt = cell(prompt)
		if prompt == "" {
			continue
		}
		job := Job{
			Name:      cell(names[i]),
			Prompt:    prompt,
			ImagePath: cell(paths[i]),
			Category:  cell(categories[i]),
		}
		if job.Name == "" {
			job.Name = fmt.Sprintf("row-%d", i+1)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func cell(s string) string {
	s = strings.TrimSpace(s)
	if s == "NaN" {
		return ""
	}
	return s
}

// Catalog is a YAML list of prompts sharing defaults.
type Catalog struct {
	Category string  `yaml:"category"`
	Options  Options `yaml:"options"`
	Jobs     []Job   `yaml:"jobs"`
}

// ReadCatalog parses a YAML catalog. Jobs inherit the catalog's category and
// any option they leave unset.
func ReadCatalog(r io.Reader) ([]Job, error) {
	var c Catalog
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	jobs := make([]Job, 0, len(c.Jobs))
	for i, job := range c.Jobs {
		if strings.TrimSpace(job.Prompt) == "" {
			return nil, fmt.Errorf("catalog job %d has no prompt", i+1)
		}
		if job.Category == "" {
			job.Category = c.Category
		}
		if job.Name == "" {
			job.Name = fmt.Sprintf("job-%d", i+1)
		}
		job.Options = mergeOptions(job.Options, c.Options)
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func mergeOptions(o, defaults Options) Options {
	if o.Model == "" {
		o.Model = defaults.Model
	}
	if o.Samples == 0 {
		o.Samples = defaults.Samples
	}
	if o.Width == 0 {
		o.Width = defaults.Width
	}
	if o.Height == 0 {
		o.Height = defaults.Height
	}
	if o.NegativePrompt == "" {
		o.NegativePrompt = defaults.NegativePrompt
	}
	return o
}
