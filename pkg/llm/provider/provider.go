// Package provider selects the adapter serving a set of credentials.
package provider

import (
	"context"
	"fmt"

	"github.com/artem13815/resumebuilder/pkg/llm"
	"github.com/artem13815/resumebuilder/pkg/llm/gemini"
	"github.com/artem13815/resumebuilder/pkg/llm/openai"
)

// NewFactory returns an llm.Factory. opts only affect OpenAI-compatible providers.
func NewFactory(opts openai.Options) llm.Factory {
	return func(ctx context.Context, creds llm.Credentials) (llm.ChatModel, error) {
		switch {
		case creds.Provider == llm.ProviderGemini:
			return gemini.New(ctx, creds)
		case openai.Supports(creds.Provider):
			return openai.New(creds, opts)
		}
		return nil, &llm.ConfigurationError{Reason: fmt.Sprintf("unsupported provider %q", creds.Provider)}
	}
}
