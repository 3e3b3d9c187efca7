// Package llm wraps the Gemini SDK behind a small interface so agents can be
// exercised against fakes.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/coursewagon/coursewagon-backend/internal/apierr"
	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/utils"
)

type Client interface {
	// GenerateText returns the model's plain-text answer.
	GenerateText(ctx context.Context, system, user string) (string, error)
	// GenerateJSON constrains the model to the given response schema and
	// unmarshals the result into out. Schema violations surface as the SDK's
	// own errors; there is no repair attempt.
	GenerateJSON(ctx context.Context, system, user string, schema *genai.Schema, out any) error
}

type geminiClient struct {
	log     *logger.Logger
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiClient(log *logger.Logger) (Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	model := utils.GetEnv("GEMINI_MODEL", "gemini-2.0-flash", log)
	timeoutSec := utils.GetEnvAsInt("GEMINI_TIMEOUT_SECONDS", 180, log)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &geminiClient{
		log:     log.With("service", "GeminiClient"),
		client:  client,
		model:   model,
		timeout: time.Duration(timeoutSec) * time.Second,
	}, nil
}

func (c *geminiClient) generate(ctx context.Context, system, user string, cfg *genai.GenerateContentConfig) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(user), cfg)
	if err != nil {
		return "", apierr.Upstream("llm_call_failed", fmt.Errorf("gemini generate: %w", err))
	}
	text := resp.Text()
	if text == "" {
		return "", apierr.Upstream("llm_empty_response", fmt.Errorf("gemini returned no text"))
	}
	return text, nil
}

func (c *geminiClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	return c.generate(ctx, system, user, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	})
}

func (c *geminiClient) GenerateJSON(ctx context.Context, system, user string, schema *genai.Schema, out any) error {
	text, err := c.generate(ctx, system, user, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.3),
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return apierr.Upstream("llm_bad_json", fmt.Errorf("parse model JSON: %w", err))
	}
	return nil
}
