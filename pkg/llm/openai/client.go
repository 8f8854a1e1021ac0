// Package openai adapts OpenAI-compatible chat completion APIs (OpenAI,
// OpenRouter, Anthropic's compatibility endpoint, Ollama, Vercel AI Gateway).
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/artem13815/resumebuilder/pkg/llm"
)

// Default endpoints of the OpenAI-compatible providers.
var baseURLs = map[llm.Provider]string{
	llm.ProviderOpenAI:     "https://api.openai.com/v1",
	llm.ProviderOpenRouter: "https://openrouter.ai/api/v1",
	llm.ProviderAnthropic:  "https://api.anthropic.com/v1/",
	llm.ProviderOllama:     "http://localhost:11434/v1",
	llm.ProviderVercel:     "https://ai-gateway.vercel.sh/v1",
}

// Providers that honour response_format=json_schema.
var structuredOutput = map[llm.Provider]bool{
	llm.ProviderOpenAI:     true,
	llm.ProviderOpenRouter: true,
	llm.ProviderVercel:     true,
	llm.ProviderOllama:     true,
}

// Options carry the optional OpenRouter attribution headers.
type Options struct {
	AppTitle string
	Referer  string
}

// Client is a chat model backed by an OpenAI-compatible endpoint.
type Client struct {
	provider llm.Provider
	model    string
	api      *goopenai.Client
}

// Supports reports whether the provider is served by this adapter.
func Supports(p llm.Provider) bool {
	_, ok := baseURLs[p]
	return ok
}

func New(creds llm.Credentials, opts Options) (*Client, error) {
	base, ok := baseURLs[creds.Provider]
	if !ok {
		return nil, &llm.ConfigurationError{Reason: fmt.Sprintf("provider %q is not OpenAI-compatible", creds.Provider)}
	}
	if creds.BaseURL != "" {
		base = creds.BaseURL
	}
	cfg := goopenai.DefaultConfig(creds.APIKey)
	cfg.BaseURL = strings.TrimRight(base, "/")
	cfg.HTTPClient = &http.Client{Transport: &headerTransport{
		base:     http.DefaultTransport,
		appTitle: opts.AppTitle,
		referer:  opts.Referer,
	}}
	return &Client{
		provider: creds.Provider,
		model:    creds.Model,
		api:      goopenai.NewClientWithConfig(cfg),
	}, nil
}

func (c *Client) Provider() llm.Provider { return c.provider }

func (c *Client) AcceptsFiles() bool { return false }

func (c *Client) request(req llm.Request) (goopenai.ChatCompletionRequest, error) {
	if len(req.Files) > 0 {
		return goopenai.ChatCompletionRequest{}, errors.New("file attachments are not supported by " + string(c.provider))
	}
	system := req.System
	out := goopenai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.2,
	}
	if len(req.Schema) > 0 {
		if structuredOutput[c.provider] {
			name := req.SchemaName
			if name == "" {
				name = "response"
			}
			out.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
				Type: goopenai.ChatCompletionResponseFormatTypeJSONSchema,
				JSONSchema: &goopenai.ChatCompletionResponseFormatJSONSchema{
					Name:   name,
					Schema: req.Schema,
				},
			}
		} else {
			system += "\n\nRespond with a single JSON object that conforms to this JSON Schema:\n" + string(req.Schema)
		}
	}
	if system != "" {
		out.Messages = append(out.Messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleSystem, Content: system})
	}
	for _, m := range req.Messages {
		role := goopenai.ChatMessageRoleUser
		if m.Role == llm.RoleAssistant {
			role = goopenai.ChatMessageRoleAssistant
		}
		out.Messages = append(out.Messages, goopenai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out, nil
}

// Complete sends one chat completion request and returns the model reply.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	body, err := c.request(req)
	if err != nil {
		return "", err
	}
	resp, err := c.api.CreateChatCompletion(ctx, body)
	if err != nil {
		return "", c.wrap(err)
	}
	slog.DebugContext(ctx, "llm call",
		"provider", c.provider,
		"model", c.model,
		"input_tokens", resp.Usage.PromptTokens,
		"output_tokens", resp.Usage.CompletionTokens)
	if len(resp.Choices) == 0 {
		return "", c.wrap(errors.New("no choices returned by model"))
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) Stream(ctx context.Context, req llm.Request, onDelta func(string) error) error {
	body, err := c.request(req)
	if err != nil {
		return err
	}
	body.Stream = true
	stream, err := c.api.CreateChatCompletionStream(ctx, body)
	if err != nil {
		return c.wrap(err)
	}
	defer stream.Close()
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return c.wrap(err)
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		if err := onDelta(chunk.Choices[0].Delta.Content); err != nil {
			return err
		}
	}
}

func (c *Client) wrap(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	gw := &llm.GatewayError{Provider: c.provider, Err: err}
	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	switch {
	case errors.As(err, &apiErr):
		gw.Status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		gw.Status = reqErr.HTTPStatusCode
	}
	return gw
}

// headerTransport adds the OpenRouter attribution headers to every request.
type headerTransport struct {
	base     http.RoundTripper
	appTitle string
	referer  string
}

func (t *headerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if t.appTitle == "" && t.referer == "" {
		return t.base.RoundTrip(r)
	}
	r = r.Clone(r.Context())
	if t.referer != "" {
		r.Header.Set("HTTP-Referer", t.referer)
	}
	if t.appTitle != "" {
		r.Header.Set("X-Title", t.appTitle)
	}
	return t.base.RoundTrip(r)
}
