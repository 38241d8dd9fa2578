// Package openai implements the generation.SummaryGenerator interface
// against the OpenAI chat completions API, wrapping each call in a
// classified-error retry loop with bounded exponential backoff.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/coursewise/coursewise/internal/config"
	"github.com/coursewise/coursewise/internal/generation"
)

// promptPrefix frames the course description for the model.
const promptPrefix = "Summarize this online course: "

// Generator implements generation.SummaryGenerator using the OpenAI API.
type Generator struct {
	logger *slog.Logger
	model  string

	maxAttempts    int
	minWait        time.Duration
	maxWait        time.Duration
	requestTimeout time.Duration

	// callFn performs one provider call. The default hits the OpenAI API;
	// tests inject a stub.
	callFn func(ctx context.Context, prompt string) (string, error)

	// sleepFn waits between retry attempts, honoring ctx cancellation.
	// Injectable so tests can observe the backoff schedule without
	// sleeping through it.
	sleepFn func(ctx context.Context, d time.Duration) error
}

// Ensure Generator implements generation.SummaryGenerator
var _ generation.SummaryGenerator = (*Generator)(nil)

// NewGenerator creates a Generator from the LLM configuration.
// Returns generation.ErrInvalidConfig if required settings are missing.
func NewGenerator(logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.MaxAttempts <= 0 {
		return nil, fmt.Errorf("%w: max attempts must be positive", generation.ErrInvalidConfig)
	}

	minWait := time.Duration(cfg.MinWaitSeconds) * time.Second
	maxWait := time.Duration(cfg.MaxWaitSeconds) * time.Second
	if minWait <= 0 || maxWait < minWait {
		return nil, fmt.Errorf("%w: backoff bounds are invalid", generation.ErrInvalidConfig)
	}

	client := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))

	g := &Generator{
		logger:         logger.With(slog.String("component", "openai_generator")),
		model:          cfg.ModelName,
		maxAttempts:    cfg.MaxAttempts,
		minWait:        minWait,
		maxWait:        maxWait,
		requestTimeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		sleepFn:        sleepWithContext,
	}
	g.callFn = func(ctx context.Context, prompt string) (string, error) {
		return completeChat(ctx, &client, g.model, prompt)
	}

	return g, nil
}

// GenerateSummary implements generation.SummaryGenerator.
//
// The provider is called up to maxAttempts times in total. Rate-limit and
// server-side failures are retried with exponential backoff bounded to
// [minWait, maxWait] per wait; anything else propagates immediately as a
// non-retryable generation failure. After exhausting attempts the last
// classified error is returned, never swallowed. A successful call returns
// the text trimmed of surrounding whitespace; a blank result is returned
// as-is with a nil error because the call itself succeeded.
func (g *Generator) GenerateSummary(ctx context.Context, description string) (string, error) {
	prompt := promptPrefix + description

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if attempt > 1 {
			wait := g.backoff(attempt)
			g.logger.Info("retrying generation",
				slog.Int("attempt", attempt),
				slog.Duration("wait", wait))
			if err := g.sleepFn(ctx, wait); err != nil {
				return "", fmt.Errorf("%w: %v", generation.ErrServerError, err)
			}
		}

		attemptCtx := ctx
		var cancel context.CancelFunc
		if g.requestTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, g.requestTimeout)
		}

		text, err := g.callFn(attemptCtx, prompt)
		if cancel != nil {
			cancel()
		}

		if err == nil {
			return strings.TrimSpace(text), nil
		}

		classified := classify(err)
		g.logger.Error("generation attempt failed",
			slog.Int("attempt", attempt),
			slog.String("error", classified.Error()))

		if !generation.IsTransient(classified) {
			return "", classified
		}

		lastErr = classified
	}

	g.logger.Warn("generation attempts exhausted",
		slog.Int("max_attempts", g.maxAttempts))
	return "", lastErr
}

// backoff returns the wait before the given attempt (attempt >= 2):
// minWait doubling per retry, capped at maxWait.
func (g *Generator) backoff(attempt int) time.Duration {
	wait := g.minWait << (attempt - 2)
	if wait > g.maxWait || wait <= 0 {
		wait = g.maxWait
	}
	return wait
}

// classify maps a provider error to the generation error taxonomy.
// Errors already carrying a taxonomy sentinel pass through unchanged.
func classify(err error) error {
	if errors.Is(err, generation.ErrRateLimited) ||
		errors.Is(err, generation.ErrServerError) ||
		errors.Is(err, generation.ErrGenerationFailed) {
		return err
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 429:
			return fmt.Errorf("%w: %v", generation.ErrRateLimited, err)
		case apiErr.StatusCode >= 500:
			return fmt.Errorf("%w: %v", generation.ErrServerError, err)
		default:
			return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
		}
	}

	// Deadline and transport errors are treated as transient server-side
	// failures: the per-attempt timeout fired or the call never arrived.
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", generation.ErrServerError, err)
	}

	return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
}

// completeChat performs one chat-completions call and extracts the text.
func completeChat(
	ctx context.Context,
	client *openai.Client,
	model, prompt string,
) (string, error) {
	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion choices returned", generation.ErrGenerationFailed)
	}

	return completion.Choices[0].Message.Content, nil
}

// sleepWithContext waits for d or until ctx is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
