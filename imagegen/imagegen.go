// Package imagegen generates marketing and product images with Imagen and
// Gemini image models, either through the Gemini API or Vertex AI.
package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/rpupo63/contractor-site-backend/config"
	"github.com/rpupo63/contractor-site-backend/errs"
)

const (
	DefaultImagenModel = "imagen-3.0-generate-002"
	DefaultGeminiModel = "gemini-2.0-flash-preview-image-generation"
)

type models interface {
	GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options tune a single generation call. Zero values fall back to defaults.
type Options struct {
	Model          string `json:"model,omitempty" yaml:"model,omitempty"`
	Samples        int    `json:"samples,omitempty" yaml:"samples,omitempty"`
	Width          int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height         int    `json:"height,omitempty" yaml:"height,omitempty"`
	NegativePrompt string `json:"negative_prompt,omitempty" yaml:"negative_prompt,omitempty"`
}

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Image is one generated picture.
type Image struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Model     string    `json:"model"`
	MimeType  string    `json:"mime_type"`
	Data      []byte    `json:"-"`
	Size      Size      `json:"size"`
	Timestamp time.Time `json:"timestamp"`
}

// DataURI renders the image inline as a data: URL.
func (i Image) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MimeType, base64.StdEncoding.EncodeToString(i.Data))
}

// Enhancer rewrites a prompt before it is sent to an image model.
type Enhancer interface {
	Enhance(ctx context.Context, prompt string) (string, error)
}

type Generator struct {
	models       models
	defaultModel string
	maxAttempts  int
	retryDelay   time.Duration
	enhancer     Enhancer
	logger       zerolog.Logger
}

type Option func(*Generator)

func WithEnhancer(e Enhancer) Option {
	return func(g *Generator) {
		g.enhancer = e
	}
}

// New creates a Generator. A Gemini API key wins over Vertex AI settings.
func New(ctx context.Context, cfg config.Images, opts ...Option) (*Generator, error) {
	clientCfg := &genai.ClientConfig{}
	switch {
	case cfg.GeminiAPIKey != "":
		clientCfg.APIKey = cfg.GeminiAPIKey
		clientCfg.Backend = genai.BackendGeminiAPI
	case cfg.Project != "":
		clientCfg.Project = cfg.Project
		clientCfg.Location = cfg.Location
		clientCfg.Backend = genai.BackendVertexAI
	default:
		return nil, errs.NewEnvironmentVariableError("GEMINI_API_KEY")
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, errs.NewConfigError("genai client", err)
	}
	return newGenerator(client.Models, cfg, opts...), nil
}

func newGenerator(m models, cfg config.Images, opts ...Option) *Generator {
	g := &Generator{
		models:       m,
		defaultModel: cfg.Model,
		maxAttempts:  cfg.MaxAttempts,
		retryDelay:   cfg.RetryDelay,
		logger:       log.With().Str("component", "imagegen").Logger(),
	}
	if g.defaultModel == "" {
		g.defaultModel = DefaultImagenModel
	}
	if g.maxAttempts < 1 {
		g.maxAttempts = 1
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate enhances prompt when an Enhancer is set, then routes to Imagen or
// Gemini depending on the model name.
func (g *Generator) Generate(ctx context.Context, prompt string, opts Options) ([]Image, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errs.NewMissingRequiredFieldError("prompt")
	}

	if g.enhancer != nil {
		enhanced, err := g.enhancer.Enhance(ctx, prompt)
		if err != nil {
			g.logger.Warn().Err(err).Msg("Prompt enhancement failed, using original prompt")
		} else if enhanced != "" {
			prompt = enhanced
		}
	}

	model := opts.Model
	if model == "" {
		model = g.defaultModel
	}
	if strings.HasPrefix(model, "gemini") {
		opts.Model = model
		return g.GenerateWithGemini(ctx, prompt, opts)
	}
	opts.Model = model
	return g.GenerateImages(ctx, prompt, opts)
}

// GenerateImages calls an Imagen model.
func (g *Generator) GenerateImages(ctx context.Context, prompt string, opts Options) ([]Image, error) {
	model := opts.Model
	if model == "" || strings.HasPrefix(model, "gemini") {
		model = DefaultImagenModel
	}
	size := sizeOf(opts)
	cfg := &genai.GenerateImagesConfig{
		NumberOfImages: int32(samplesOf(opts)),
		AspectRatio:    aspectRatio(size),
		NegativePrompt: opts.NegativePrompt,
		OutputMIMEType: "image/png",
	}

	var resp *genai.GenerateImagesResponse
	err := g.retry(ctx, model, func() error {
		var err error
		resp, err = g.models.GenerateImages(ctx, model, prompt, cfg)
		return err
	})
	if err != nil {
		return nil, err
	}

	var out []Image
	var filtered string
	for _, gi := range resp.GeneratedImages {
		if gi == nil || gi.Image == nil || len(gi.Image.ImageBytes) == 0 {
			if gi != nil && gi.RAIFilteredReason != "" {
				filtered = gi.RAIFilteredReason
			}
			continue
		}
		mime := gi.Image.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		out = append(out, g.newImage(prompt, model, mime, gi.Image.ImageBytes, size))
	}
	if len(out) == 0 {
		if filtered != "" {
			return nil, errs.NewContentPolicyError(model, filtered)
		}
		return nil, errs.NewEmptyResponseError(model)
	}
	g.logger.Info().Str("model", model).Int("count", len(out)).Msg("Generated images")
	return out, nil
}

// GenerateWithGemini asks a Gemini image-output model for a picture and
// collects the inline image parts of every candidate.
func (g *Generator) GenerateWithGemini(ctx context.Context, prompt string, opts Options) ([]Image, error) {
	model := opts.Model
	if model == "" || !strings.HasPrefix(model, "gemini") {
		model = DefaultGeminiModel
	}
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}
	size := sizeOf(opts)

	var resp *genai.GenerateContentResponse
	err := g.retry(ctx, model, func() error {
		var err error
		resp, err = g.models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
		return err
	})
	if err != nil {
		return nil, err
	}

	var out []Image
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			if !strings.HasPrefix(part.InlineData.MIMEType, "image/") {
				continue
			}
			out = append(out, g.newImage(prompt, model, part.InlineData.MIMEType, part.InlineData.Data, size))
		}
	}
	if len(out) == 0 {
		return nil, errs.NewEmptyResponseError(model)
	}
	g.logger.Info().Str("model", model).Int("count", len(out)).Msg("Generated images with Gemini")
	return out, nil
}

// retry runs call up to maxAttempts times with a fixed delay between
// attempts. Only errors that may clear on their own are retried.
func (g *Generator) retry(ctx context.Context, model string, call func() error) error {
	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		err := call()
		if err == nil {
			return nil
		}
		lastErr = upstreamError(model, err)
		if !errs.IsRetryable(lastErr) || attempt == g.maxAttempts {
			break
		}

		g.logger.Warn().Err(err).Int("attempt", attempt).Str("model", model).Msg("Image generation failed, retrying")
		timer := time.NewTimer(g.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

// upstreamError classifies a genai failure by its HTTP status when the API
// returned one, and by its message otherwise.
func upstreamError(model string, err error) *errs.ApiErr {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return errs.NewUpstreamStatusError(model, apiErr.Code, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return errs.NewUpstreamStatusError(model, apiErrPtr.Code, err)
	}
	return errs.NewUpstreamError(model, err)
}

func (g *Generator) newImage(prompt, model, mime string, data []byte, size Size) Image {
	return Image{
		ID:        uuid.NewString(),
		Prompt:    prompt,
		Model:     model,
		MimeType:  mime,
		Data:      data,
		Size:      size,
		Timestamp: time.Now().UTC(),
	}
}

func samplesOf(opts Options) int {
	switch {
	case opts.Samples < 1:
		return 1
	case opts.Samples > 4:
		return 4
	default:
		return opts.Samples
	}
}

func sizeOf(opts Options) Size {
	s := Size{Width: opts.Width, Height: opts.Height}
	if s.Width <= 0 {
		s.Width = 1024
	}
	if s.Height <= 0 {
		s.Height = 1024
	}
	return s
}

// aspectRatio picks the supported ratio closest to the requested size.
func aspectRatio(s Size) string {
	ratios := []struct {
		name  string
		value float64
	}{
		{"1:1", 1}, {"3:4", 0.75}, {"4:3", 4.0 / 3}, {"9:16", 9.0 / 16}, {"16:9", 16.0 / 9},
	}
	want := float64(s.Width) / float64(s.Height)
	best := ratios[0]
	for _, r := range ratios[1:] {
		if abs(r.value-want) < abs(best.value-want) {
			best = r
		}
	}
	return best.name
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
