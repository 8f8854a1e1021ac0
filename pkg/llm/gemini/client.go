// Package gemini adapts Google's Gemini API. Unlike the OpenAI-compatible
// adapter it passes PDF and Word attachments to the model natively.
package gemini

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/genai"

	"github.com/artem13815/resumebuilder/pkg/llm"
)

type Client struct {
	model string
	api   *genai.Client
}

// New builds a client without contacting the API.
func New(ctx context.Context, creds llm.Credentials) (*Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  creds.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if creds.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: creds.BaseURL}
	}
	api, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, &llm.ConfigurationError{Reason: "gemini client: " + err.Error()}
	}
	return &Client{model: creds.Model, api: api}, nil
}

func (c *Client) Provider() llm.Provider { return llm.ProviderGemini }

func (c *Client) AcceptsFiles() bool { return true }

func (c *Client) build(req llm.Request) ([]*genai.Content, *genai.GenerateContentConfig) {
	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0.2)}
	system := req.System
	if len(req.Schema) > 0 {
		cfg.ResponseMIMEType = "application/json"
		system += "\n\nRespond with a single JSON object that conforms to this JSON Schema:\n" + string(req.Schema)
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	contents := make([]*genai.Content, 0, len(req.Messages)+1)
	for _, m := range req.Messages {
		role := "user"
		if m.Role == llm.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []*genai.Part{{Text: m.Content}}})
	}
	if len(req.Files) > 0 {
		parts := make([]*genai.Part, 0, len(req.Files))
		for _, f := range req.Files {
			parts = append(parts, genai.NewPartFromBytes(f.Data, f.MediaType))
		}
		// attachments travel with the last user turn
		if n := len(contents); n > 0 && contents[n-1].Role == "user" {
			contents[n-1].Parts = append(parts, contents[n-1].Parts...)
		} else {
			contents = append(contents, &genai.Content{Role: "user", Parts: parts})
		}
	}
	return contents, cfg
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	contents, cfg := c.build(req)
	resp, err := c.api.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", wrap(err)
	}
	if resp.UsageMetadata != nil {
		slog.DebugContext(ctx, "llm call",
			"provider", llm.ProviderGemini,
			"model", c.model,
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount)
	}
	text := resp.Text()
	if text == "" {
		return "", wrap(errors.New("empty response from model"))
	}
	return text, nil
}

func (c *Client) Stream(ctx context.Context, req llm.Request, onDelta func(string) error) error {
	contents, cfg := c.build(req)
	for resp, err := range c.api.Models.GenerateContentStream(ctx, c.model, contents, cfg) {
		if err != nil {
			return wrap(err)
		}
		if text := resp.Text(); text != "" {
			if err := onDelta(text); err != nil {
				return err
			}
		}
	}
	return nil
}

func wrap(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &llm.GatewayError{Provider: llm.ProviderGemini, Err: err}
}
