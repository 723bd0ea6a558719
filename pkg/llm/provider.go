// Package llm wraps the external completion providers behind a single interface.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// CompletionRequest is the provider-neutral completion call.
type CompletionRequest struct {
	Prompt      string
	Temperature float32
	MaxTokens   int
	N           int
}

// Provider produces a single completion for a prompt.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Config carries the only provider setting callers supply.
type Config struct {
	APIKey string
}

// ErrMissingAPIKey is returned by constructors given an empty key.
var ErrMissingAPIKey = errors.New("llm: api key is not configured")

// Failure reasons recorded on ProviderError.
const (
	ReasonTransport   = "transport"
	ReasonTimeout     = "timeout"
	ReasonEmpty       = "empty_response"
	ReasonNoChoice    = "no_choice"
	ReasonUnavailable = "unavailable"
)

// ProviderError reports any failure to obtain a usable completion.
type ProviderError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm %s: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("llm %s: %s", e.Provider, e.Reason)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// newError classifies err, treating context expiry as a timeout.
func newError(provider string, err error) *ProviderError {
	reason := ReasonTransport
	if errors.Is(err, context.DeadlineExceeded) {
		reason = ReasonTimeout
	}
	return &ProviderError{Provider: provider, Reason: reason, Err: err}
}

// Unavailable always fails. It stands in when no provider could be configured.
type Unavailable struct {
	Cause error
}

func (u Unavailable) Name() string { return "unavailable" }

func (u Unavailable) Complete(context.Context, CompletionRequest) (string, error) {
	return "", &ProviderError{Provider: u.Name(), Reason: ReasonUnavailable, Err: u.Cause}
}

// New builds the provider named by kind ("gemini" or "openai"). A missing key
// or unknown kind yields Unavailable together with the cause.
func New(ctx context.Context, kind string, cfg Config) (Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Unavailable{Cause: ErrMissingAPIKey}, ErrMissingAPIKey
	}
	switch strings.ToLower(kind) {
	case "", "gemini":
		p, err := NewGeminiProvider(ctx, cfg)
		if err != nil {
			return Unavailable{Cause: err}, err
		}
		return p, nil
	case "openai":
		p, err := NewOpenAIProvider(cfg)
		if err != nil {
			return Unavailable{Cause: err}, err
		}
		return p, nil
	default:
		err := fmt.Errorf("llm: unknown provider %q", kind)
		return Unavailable{Cause: err}, err
	}
}
