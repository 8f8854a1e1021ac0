// Package llmtest provides a scripted llm.ChatModel for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/artem13815/resumebuilder/pkg/llm"
)

// Model replies with Reply (or streams Chunks) and records every request.
// When Err is set every call fails with it.
type Model struct {
	Reply     string
	Chunks    []string
	Err       error
	Files     bool
	ProviderV llm.Provider

	mu       sync.Mutex
	requests []llm.Request
}

func (m *Model) Provider() llm.Provider {
	if m.ProviderV == "" {
		return llm.ProviderOpenAI
	}
	return m.ProviderV
}

func (m *Model) AcceptsFiles() bool { return m.Files }

func (m *Model) record(req llm.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
}

func (m *Model) Complete(_ context.Context, req llm.Request) (string, error) {
	m.record(req)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

func (m *Model) Stream(_ context.Context, req llm.Request, onDelta func(string) error) error {
	m.record(req)
	if m.Err != nil {
		return m.Err
	}
	chunks := m.Chunks
	if len(chunks) == 0 && m.Reply != "" {
		chunks = []string{m.Reply}
	}
	for _, c := range chunks {
		if err := onDelta(c); err != nil {
			return err
		}
	}
	return nil
}

// Requests returns what the model has been asked so far.
func (m *Model) Requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llm.Request(nil), m.requests...)
}

// Factory returns an llm.Factory handing out m and counting invocations.
// The resolved credentials of the last call are stored in *seen when non-nil.
func Factory(m *Model, calls *int, seen *llm.Credentials) llm.Factory {
	return func(_ context.Context, creds llm.Credentials) (llm.ChatModel, error) {
		if calls != nil {
			*calls++
		}
		if seen != nil {
			*seen = creds
		}
		return m, nil
	}
}
