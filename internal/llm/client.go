package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"

	"comm-agent/pkg/api"
)

var (
	// ErrUnavailable indicates the model endpoint could not be reached or
	// timed out.
	ErrUnavailable = errors.New("model endpoint unavailable")

	// ErrGeneration indicates the model endpoint was reached but reported a
	// failure while generating.
	ErrGeneration = errors.New("generation failed")
)

const chatSystemPrompt = "You are a helpful assistant. Use the conversation so far to answer the user's latest message."

// Message is a role-tagged entry of the transcript sent to the model.
type Message struct {
	Role    string
	Content string
}

type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteChat(ctx context.Context, transcript []Message) (string, error)
	Ping(ctx context.Context) error
}

// OllamaClient calls a locally hosted Ollama model with fixed sampling
// settings. Calls are single round trips: no retries, no partial results.
type OllamaClient struct {
	llm      *ollama.LLM
	rest     *resty.Client
	settings api.GenerationSettings
	timeout  time.Duration
}

func NewOllamaClient(host, model string, settings api.GenerationSettings, timeout time.Duration) (*OllamaClient, error) {
	client, err := ollama.New(ollama.WithServerURL(host), ollama.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("could not create ollama client: %w", err)
	}

	return &OllamaClient{
		llm:      client,
		rest:     resty.New().SetBaseURL(host),
		settings: settings,
		timeout:  timeout,
	}, nil
}

func (c *OllamaClient) callOptions() []llms.CallOption {
	return []llms.CallOption{
		llms.WithTemperature(c.settings.Temperature),
		llms.WithMaxTokens(c.settings.MaxTokens),
		llms.WithTopP(c.settings.TopP),
		llms.WithTopK(c.settings.TopK),
	}
}

func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}
	return c.generate(ctx, messages)
}

func (c *OllamaClient) CompleteChat(ctx context.Context, transcript []Message) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, chatSystemPrompt),
	}
	for _, msg := range transcript {
		role := schema.ChatMessageTypeHuman
		if msg.Role == api.RoleAssistant {
			role = schema.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, msg.Content))
	}
	return c.generate(ctx, messages)
}

func (c *OllamaClient) generate(ctx context.Context, messages []llms.MessageContent) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.llm.GenerateContent(ctx, messages, c.callOptions()...)
	if err != nil {
		slog.Error("error calling model endpoint", "error", err)
		return "", classifyErr(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: model returned no choices", ErrGeneration)
	}

	return resp.Choices[0].Content, nil
}

// Ping checks that the Ollama server is reachable.
func (c *OllamaClient) Ping(ctx context.Context) error {
	resp, err := c.rest.R().SetContext(ctx).Get("/api/version")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}
	return nil
}

func classifyErr(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return fmt.Errorf("%w: %v", ErrGeneration, err)
}
