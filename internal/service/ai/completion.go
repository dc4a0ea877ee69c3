// Package ai wraps the configured chat model behind a small text-completion
// API. Every consumer of this service owns a deterministic fallback; callers
// treat any returned error as "use the fallback" and may inspect the error
// kind to decide whether retrying later makes sense.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/havenlabs/haven/backend/internal/config"
)

// Kind distinguishes transient upstream failures from hard ones such as
// rejected credentials.
type Kind string

const (
	KindTransient Kind = "transient"
	KindHard      Kind = "hard"
)

// Error carries the failure kind alongside the underlying error.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("completion %s failure: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Options tune a single completion request.
type Options struct {
	Temperature *float64
	MaxTokens   *int
	System      string
}

// Service exposes bounded text completion over the configured chat model.
type Service struct {
	chatModel model.ChatModel
	timeout   time.Duration
	cache     *expansionCache
	enabled   bool
}

// NewService builds the completion service. When the model credentials are
// missing the service still constructs, permanently disabled, so the rest of
// the pipeline runs on local heuristics alone.
func NewService(ctx context.Context, cfg config.AIConfig, timeout time.Duration, cacheCapacity int) (*Service, error) {
	svc := &Service{
		timeout: timeout,
		cache:   newExpansionCache(cacheCapacity),
	}
	if !cfg.Enabled() {
		return svc, nil
	}

	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	svc.chatModel = chatModel
	svc.enabled = true
	return svc, nil
}

// Enabled reports whether an upstream model is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.chatModel != nil
}

// Complete sends a prompt to the model and returns the trimmed response.
// The call is bounded by the configured timeout so the analysis pipeline
// never hangs on upstream latency.
func (s *Service) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	if !s.Enabled() {
		return "", &Error{Kind: KindTransient, Err: errors.New("completion service not configured")}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages := make([]*schema.Message, 0, 2)
	if opts.System != "" {
		messages = append(messages, schema.SystemMessage(opts.System))
	}
	messages = append(messages, schema.UserMessage(prompt))

	callOpts := make([]model.Option, 0, 2)
	if opts.Temperature != nil {
		callOpts = append(callOpts, model.WithTemperature(float32(*opts.Temperature)))
	}
	if opts.MaxTokens != nil {
		callOpts = append(callOpts, model.WithMaxTokens(*opts.MaxTokens))
	}

	response, err := s.chatModel.Generate(ctx, messages, callOpts...)
	if err != nil {
		return "", classify(err)
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", &Error{Kind: KindTransient, Err: errors.New("empty completion")}
	}

	return strings.TrimSpace(response.Content), nil
}

// Expand rewrites a short affirmation into a fuller encouragement. Identical
// in-flight requests share one upstream call; on any failure the original
// text passes through unchanged.
func (s *Service) Expand(ctx context.Context, affirmation string) string {
	trimmed := strings.TrimSpace(affirmation)
	if s == nil || trimmed == "" {
		return affirmation
	}

	text, err := s.cache.do(trimmed, func() (string, error) {
		prompt := fmt.Sprintf(
			"Expand this short affirmation into two warm, grounded sentences without clichés: %q", trimmed)
		return s.Complete(ctx, prompt, Options{System: expansionSystemPrompt})
	})
	if err != nil {
		log.Printf("[ai] affirmation expansion failed, using original text: %v", err)
		return affirmation
	}
	return text
}

const expansionSystemPrompt = "You expand affirmations for a mental wellness companion. Reply with the expanded text only."

// classify maps an upstream error to a kinded Error. Credential and
// permission failures are hard; everything else is treated as transient.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindTransient, Err: err}
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"unauthorized", "forbidden", "invalid api key", "authentication", "401", "403"} {
		if strings.Contains(msg, marker) {
			return &Error{Kind: KindHard, Err: err}
		}
	}
	return &Error{Kind: KindTransient, Err: err}
}
