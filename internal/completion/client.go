package completion

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/MikeSquared-Agency/policedraft/internal/prompt"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.3-70b-versatile"
	DefaultTimeout = 60 * time.Second
)

// Policy decides what Complete does when no API key is configured.
type Policy string

const (
	// PolicyFallback answers with the raw input so the caller can normalize
	// it locally.
	PolicyFallback Policy = "fallback"
	// PolicyStrict fails with a ConfigurationError.
	PolicyStrict Policy = "strict"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyFallback:
		return PolicyFallback, nil
	case PolicyStrict:
		return PolicyStrict, nil
	}
	return "", fmt.Errorf("unknown credential policy %q", s)
}

// Params are the generation settings sent with every request.
type Params struct {
	Model            string
	Temperature      float32
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
	MaxTokens        int
}

func DefaultParams() Params {
	return Params{
		Model:            DefaultModel,
		Temperature:      0.1,
		TopP:             0.8,
		FrequencyPenalty: 0.3,
		PresencePenalty:  0.0,
		MaxTokens:        1200,
	}
}

type Options struct {
	APIKey  string
	BaseURL string
	Params  Params
	Policy  Policy
	Timeout time.Duration
}

// Completion is the text answered for one request.
type Completion struct {
	Text    string
	Model   string
	Offline bool
}

type Client struct {
	api    *openai.Client
	params Params
	policy Policy
	logger zerolog.Logger
}

func NewClient(opts Options, logger zerolog.Logger) *Client {
	if opts.Params.Model == "" {
		opts.Params.Model = DefaultModel
	}
	if opts.Policy == "" {
		opts.Policy = PolicyFallback
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	c := &Client{params: opts.Params, policy: opts.Policy, logger: logger}
	if opts.APIKey == "" {
		return c
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = baseURL(opts.BaseURL)
	cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}
	c.api = openai.NewClientWithConfig(cfg)
	return c
}

// baseURL accepts either an API root or a full chat-completions URL.
func baseURL(u string) string {
	u = strings.TrimRight(strings.TrimSpace(u), "/")
	if u == "" {
		return DefaultBaseURL
	}
	return strings.TrimSuffix(u, "/chat/completions")
}

// Offline reports whether Complete echoes its input instead of calling out.
func (c *Client) Offline() bool {
	return c.api == nil
}

func (c *Client) Policy() Policy {
	return c.policy
}

func (c *Client) Model() string {
	return c.params.Model
}

// Complete sends msgs to the chat-completion endpoint and returns the
// trimmed assistant text.
func (c *Client) Complete(ctx context.Context, msgs []prompt.Message) (Completion, error) {
	if c.api == nil {
		if c.policy == PolicyStrict {
			return Completion{}, &ConfigurationError{Setting: "LLM_API_KEY"}
		}
		c.logger.Debug().Msg("no api key configured, echoing input")
		return Completion{Text: strings.TrimSpace(prompt.LastUser(msgs)), Offline: true}, nil
	}

	req := openai.ChatCompletionRequest{
		Model:            c.params.Model,
		Temperature:      c.params.Temperature,
		TopP:             c.params.TopP,
		FrequencyPenalty: c.params.FrequencyPenalty,
		PresencePenalty:  c.params.PresencePenalty,
		MaxTokens:        c.params.MaxTokens,
		Messages:         make([]openai.ChatCompletionMessage, len(msgs)),
	}
	for i, m := range msgs {
		req.Messages[i] = openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content}
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		uerr := upstreamError(err)
		c.logger.Warn().Err(err).Int("status", uerr.StatusCode).Msg("completion request failed")
		return Completion{}, uerr
	}
	if len(resp.Choices) == 0 {
		return Completion{}, &UpstreamError{StatusCode: http.StatusOK, Message: "empty choices"}
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.logger.Info().
		Str("model", c.params.Model).
		Str("finish_reason", string(resp.Choices[0].FinishReason)).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Int("answer_len", len(text)).
		Dur("elapsed", time.Since(start)).
		Msg("completion done")

	model := resp.Model
	if model == "" {
		model = c.params.Model
	}
	return Completion{Text: text, Model: model}, nil
}
