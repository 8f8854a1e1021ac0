package llm

import (
	"fmt"
	"strings"
)

type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderAnthropic  Provider = "anthropic"
	ProviderGemini     Provider = "gemini"
	ProviderOllama     Provider = "ollama"
	ProviderOpenRouter Provider = "openrouter"
	ProviderVercel     Provider = "vercel-ai-gateway"
)

var providers = map[Provider]bool{
	ProviderOpenAI:     true,
	ProviderAnthropic:  true,
	ProviderGemini:     true,
	ProviderOllama:     true,
	ProviderOpenRouter: true,
	ProviderVercel:     true,
}

// Providers lists every supported provider.
func Providers() []Provider {
	return []Provider{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderOllama, ProviderOpenRouter, ProviderVercel}
}

// Credentials select a provider and model and authenticate against it.
type Credentials struct {
	Provider Provider `json:"provider,omitempty"`
	Model    string   `json:"model,omitempty"`
	APIKey   string   `json:"apiKey,omitempty"`
	BaseURL  string   `json:"baseURL,omitempty"`
}

// Configured reports whether the credentials carry an API key.
func (c Credentials) Configured() bool { return strings.TrimSpace(c.APIKey) != "" }

// String never prints the key.
func (c Credentials) String() string {
	return fmt.Sprintf("%s/%s", c.Provider, c.Model)
}

func normalized(p Provider) Provider {
	p = Provider(strings.ToLower(strings.TrimSpace(string(p))))
	if p == "" {
		return ProviderOpenAI
	}
	return p
}

// Resolve merges caller-supplied credentials over the configured defaults
// field by field. Provider falls back to openai; picking a provider other
// than the default one discards the defaults entirely. A missing model, or a
// missing API key for any provider but a local ollama, is a
// ConfigurationError. Nothing here touches the network.
func Resolve(override *Credentials, defaults Credentials) (Credentials, error) {
	out := defaults
	if override != nil {
		if v := Provider(strings.ToLower(strings.TrimSpace(string(override.Provider)))); v != "" && v != normalized(defaults.Provider) {
			// defaults belong to another provider: keep none of them
			out = Credentials{Provider: v}
		}
		if v := strings.TrimSpace(override.Model); v != "" {
			out.Model = v
		}
		if v := strings.TrimSpace(override.APIKey); v != "" {
			out.APIKey = v
		}
		if v := strings.TrimSpace(override.BaseURL); v != "" {
			out.BaseURL = v
		}
	}
	out.Provider = normalized(out.Provider)
	if !providers[out.Provider] {
		return Credentials{}, &ConfigurationError{Reason: fmt.Sprintf("unsupported provider %q", out.Provider)}
	}
	if !out.Configured() && out.Provider != ProviderOllama {
		return Credentials{}, &ConfigurationError{Reason: "no API key configured for " + string(out.Provider)}
	}
	if strings.TrimSpace(out.Model) == "" {
		return Credentials{}, &ConfigurationError{Reason: "no model configured for " + string(out.Provider)}
	}
	return out, nil
}
