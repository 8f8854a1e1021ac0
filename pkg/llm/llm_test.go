package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	defaults := Credentials{Provider: ProviderOpenAI, Model: "gpt-4o-mini", APIKey: "env-key", BaseURL: "https://proxy.local/v1"}

	tests := []struct {
		name     string
		override *Credentials
		defaults Credentials
		want     Credentials
		wantErr  bool
	}{
		{name: "defaults only", defaults: defaults, want: defaults},
		{
			name:     "field level override",
			override: &Credentials{Model: "gpt-4.1"},
			defaults: defaults,
			want:     Credentials{Provider: ProviderOpenAI, Model: "gpt-4.1", APIKey: "env-key", BaseURL: "https://proxy.local/v1"},
		},
		{
			name:     "provider defaults to openai",
			override: &Credentials{APIKey: "user-key", Model: "m"},
			defaults: Credentials{},
			want:     Credentials{Provider: ProviderOpenAI, Model: "m", APIKey: "user-key"},
		},
		{
			name:     "other provider drops defaults",
			override: &Credentials{Provider: "Gemini", Model: "gemini-2.5-flash", APIKey: "g"},
			defaults: defaults,
			want:     Credentials{Provider: ProviderGemini, Model: "gemini-2.5-flash", APIKey: "g"},
		},
		{name: "other provider without key", override: &Credentials{Provider: ProviderGemini, Model: "x"}, defaults: defaults, wantErr: true},
		{
			name:     "ollama runs without a key",
			override: &Credentials{Provider: ProviderOllama, Model: "llama3.1"},
			defaults: defaults,
			want:     Credentials{Provider: ProviderOllama, Model: "llama3.1"},
		},
		{name: "ollama still needs a model", override: &Credentials{Provider: ProviderOllama}, defaults: defaults, wantErr: true},
		{name: "no key anywhere", defaults: Credentials{Model: "m"}, wantErr: true},
		{name: "no model", defaults: Credentials{APIKey: "k"}, wantErr: true},
		{name: "unknown provider", override: &Credentials{Provider: "acme"}, defaults: defaults, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.override, tt.defaults)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrConfiguration))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCredentialsStringHidesKey(t *testing.T) {
	c := Credentials{Provider: ProviderOpenAI, Model: "m", APIKey: "secret"}
	assert.NotContains(t, c.String(), "secret")
}

func TestAsGateway(t *testing.T) {
	err := AsGateway(ProviderOpenAI, errors.New("timeout"))
	assert.True(t, errors.Is(err, ErrGateway))

	cfg := &ConfigurationError{Reason: "x"}
	assert.Same(t, cfg, AsGateway(ProviderOpenAI, cfg))
	assert.Equal(t, context.Canceled, AsGateway(ProviderOpenAI, context.Canceled))
	assert.NoError(t, AsGateway(ProviderOpenAI, nil))
}

func TestExtractJSON(t *testing.T) {
	got, err := ExtractJSON("```json\n{\"a\": {\"b\": 1}}\n```")
	require.NoError(t, err)
	assert.Equal(t, `{"a": {"b": 1}}`, got)

	got, err = ExtractJSON(`Sure! {"x":1} hope this helps`)
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, got)

	_, err = ExtractJSON("no json here")
	assert.ErrorIs(t, err, ErrNoJSON)
}
