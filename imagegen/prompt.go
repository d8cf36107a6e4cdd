package imagegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/rpupo63/contractor-site-backend/config"
	"github.com/rpupo63/contractor-site-backend/errs"
)

// ProductPrompt builds the standard catalog prompt for a product photo.
func ProductPrompt(name, description, category string) string {
	return fmt.Sprintf("High-quality professional product image of %s, a %s product. %s. "+
		"The image should be well-lit, with a clean background, showing the product from a clear angle. "+
		"Photorealistic, detailed, product photography style.",
		name, category, strings.TrimSuffix(strings.TrimSpace(description), "."))
}

const enhanceTemplate = `Rewrite the following image prompt for a home improvement contractor's website.
Keep the subject exactly the same, add concrete details about lighting, materials and composition,
and answer with the rewritten prompt only.

Prompt: %s`

// PromptEnhancer rewrites prompts with a text model through langchaingo.
type PromptEnhancer struct {
	llm llms.Model
}

func NewPromptEnhancer(ctx context.Context, cfg config.Images) (*PromptEnhancer, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, errs.NewEnvironmentVariableError("GEMINI_API_KEY")
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.GeminiAPIKey),
		googleai.WithDefaultModel(cfg.PromptModel),
	)
	if err != nil {
		return nil, errs.NewConfigError("prompt model", err)
	}
	return &PromptEnhancer{llm: llm}, nil
}

func (p *PromptEnhancer) Enhance(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, p.llm, fmt.Sprintf(enhanceTemplate, prompt),
		llms.WithTemperature(0.4),
		llms.WithMaxTokens(300),
	)
	if err != nil {
		return "", errs.NewUpstreamError("prompt model", err)
	}
	return strings.Trim(strings.TrimSpace(out), `"`), nil
}
