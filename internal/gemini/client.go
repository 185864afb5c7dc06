// Package gemini talks to the Google Gemini API: text generation for
// drafting and rescheduling, embeddings for document retrieval.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"planassist/internal/config"
	"planassist/internal/planner"
	"planassist/pkg/circuitbreaker"
	"planassist/pkg/metrics"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("gemini returned an empty response")

// ParseError reports a model reply that was not valid JSON. Raw keeps
// the full response for diagnostics; it goes to the log, not the HTTP
// body.
type ParseError struct {
	Op  string
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gemini %s: failed to parse model response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TextGenerator is the raw model call. The concrete Client implements
// it; tests substitute a canned generator.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, temperature float32) (string, error)
}

// Client wraps the genai SDK behind a circuit breaker. Constructed once
// at process start and passed by reference; no package-level client
// state.
type Client struct {
	client         *genai.Client
	model          string
	embeddingModel string
	breaker        *circuitbreaker.CircuitBreaker
	logger         *zap.Logger
}

func NewClient(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		client:         client,
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		breaker:        circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
		logger:         logger,
	}, nil
}

// Generate sends one prompt and returns the model's trimmed text reply.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	start := time.Now()

	var text string
	err := c.breaker.Execute(func() error {
		resp, err := c.client.Models.GenerateContent(ctx, c.model,
			genai.Text(prompt),
			&genai.GenerateContentConfig{
				Temperature: genai.Ptr[float32](temperature),
			},
		)
		if err != nil {
			return err
		}

		text = strings.TrimSpace(resp.Text())
		if text == "" {
			return ErrEmptyResponse
		}
		return nil
	})

	status := "success"
	if err != nil {
		status = "failed"
	}
	metrics.RecordGeminiCallLatency("generate", status, time.Since(start))

	if err != nil {
		c.logger.Error("Gemini generation failed",
			zap.String("model", c.model),
			zap.Int("prompt_length", len(prompt)),
			zap.Error(err),
		)
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	return text, nil
}

// EmbedDocuments embeds a batch of paragraphs for retrieval indexing.
func (c *Client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return c.embed(ctx, texts, "RETRIEVAL_DOCUMENT")
}

// EmbedQuery embeds a single retrieval query.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.embed(ctx, []string{text}, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *Client) embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	start := time.Now()

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	var embeddings [][]float32
	err := c.breaker.Execute(func() error {
		result, err := c.client.Models.EmbedContent(ctx,
			c.embeddingModel,
			contents,
			&genai.EmbedContentConfig{
				TaskType: taskType,
			},
		)
		if err != nil {
			return err
		}
		if len(result.Embeddings) != len(texts) {
			return fmt.Errorf("expected %d embeddings, got %d", len(texts), len(result.Embeddings))
		}

		embeddings = make([][]float32, len(result.Embeddings))
		for i, emb := range result.Embeddings {
			embeddings[i] = emb.Values
		}
		return nil
	})

	status := "success"
	if err != nil {
		status = "failed"
	}
	metrics.RecordGeminiCallLatency("embed", status, time.Since(start))

	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	return embeddings, nil
}

// Close closes the underlying genai client. The genai SDK client holds
// no resources that need explicit closing, so this is a no-op.
func (c *Client) Close() error {
	return nil
}

// CleanJSON strips the markdown code fences models like to wrap JSON in.
func CleanJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	} else {
		s = strings.ReplaceAll(s, "```", "")
	}
	return strings.TrimSpace(s)
}

// decodePlan parses a model reply into the plan tree, reporting the raw
// response through a typed error when it is not valid JSON.
func decodePlan(op, raw string) (*planner.Plan, error) {
	var plan planner.Plan
	if err := json.Unmarshal([]byte(CleanJSON(raw)), &plan); err != nil {
		return nil, &ParseError{Op: op, Raw: raw, Err: err}
	}
	return &plan, nil
}
