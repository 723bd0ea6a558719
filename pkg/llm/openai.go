package llm

import (
	"context"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider calls the OpenAI chat completion API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider builds a client authenticated with cfg.APIKey.
func NewOpenAIProvider(cfg Config) (*OpenAIProvider, error) {
	return newOpenAIProvider(openai.DefaultConfig(cfg.APIKey), cfg)
}

func newOpenAIProvider(clientCfg openai.ClientConfig, cfg Config) (*OpenAIProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(clientCfg), model: openai.GPT3Dot5Turbo16K}, nil
}

func (p *OpenAIProvider) Name() string { return "openai" }

// Complete sends the prompt as a single user message.
func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	temperature := req.Temperature
	if temperature == 0 {
		// zero is dropped by omitempty and the API would apply its default of 1
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: temperature,
		N:           req.N,
	})
	if err != nil {
		return "", newError(p.Name(), err)
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: p.Name(), Reason: ReasonNoChoice}
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", &ProviderError{Provider: p.Name(), Reason: ReasonEmpty}
	}
	return out, nil
}
