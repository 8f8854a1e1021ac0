package llm

import (
	"context"
	"encoding/json"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// File is a binary attachment sent alongside the last user message.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

// Request is one chat turn. When Schema is set the model is asked to answer
// with a single JSON object conforming to it.
type Request struct {
	System     string
	Messages   []Message
	Files      []File
	Schema     json.RawMessage
	SchemaName string
}

// ChatModel is a minimal abstraction for chat-based LLMs used by the domain.
// It hides concrete providers to preserve dependency direction.
type ChatModel interface {
	Complete(ctx context.Context, req Request) (string, error)
	// Stream calls onDelta for every text fragment as it arrives. An error
	// returned by onDelta stops the stream and is returned as is.
	Stream(ctx context.Context, req Request, onDelta func(string) error) error
	// AcceptsFiles reports whether File attachments reach the model natively.
	AcceptsFiles() bool
	Provider() Provider
}

// Factory builds a model for resolved credentials. It must not perform
// network calls.
type Factory func(ctx context.Context, creds Credentials) (ChatModel, error)

// Ask sends a single system+user exchange and returns the reply.
func Ask(ctx context.Context, m ChatModel, systemPrompt, userPrompt string) (string, error) {
	return m.Complete(ctx, Request{
		System:   systemPrompt,
		Messages: []Message{{Role: RoleUser, Content: userPrompt}},
	})
}
