// Package chat lets a language model edit a resume in conversation. The
// model answers in plain text and proposes changes as JSON Patch blocks.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/artem13815/resumebuilder/pkg/llm"
	"github.com/artem13815/resumebuilder/pkg/resume"
)

// Request carries everything one chat turn needs.
type Request struct {
	Credentials *llm.Credentials `json:"credentials,omitempty"`
	Messages    []llm.Message    `json:"messages"`
	Document    resume.Document  `json:"resumeData"`
}

type Editor struct {
	factory  llm.Factory
	defaults llm.Credentials
}

func NewEditor(factory llm.Factory, defaults llm.Credentials) *Editor {
	return &Editor{factory: factory, defaults: defaults}
}

// Stream runs one turn and reports text, patch and finally done events to
// emit. Patches are proposals: callers apply them with Apply.
func (e *Editor) Stream(ctx context.Context, req Request, emit func(Event) error) error {
	creds, err := e.check(req)
	if err != nil {
		return err
	}
	system, err := systemPrompt(req.Document)
	if err != nil {
		return err
	}
	model, err := e.factory(ctx, creds)
	if err != nil {
		return err
	}

	s := &splitter{ctx: ctx, emit: emit}
	err = model.Stream(ctx, llm.Request{System: system, Messages: req.Messages}, s.write)
	if err == nil {
		err = s.flush()
	}
	if err != nil {
		var cb *emitError
		if errors.As(err, &cb) {
			return cb.err
		}
		return llm.AsGateway(creds.Provider, err)
	}
	return emit(Event{Type: EventDone})
}

// Check reports configuration and request problems without calling the
// model, so transports can answer with a plain error before streaming.
func (e *Editor) Check(req Request) error {
	_, err := e.check(req)
	return err
}

func (e *Editor) check(req Request) (llm.Credentials, error) {
	creds, err := llm.Resolve(req.Credentials, e.defaults)
	if err != nil {
		return llm.Credentials{}, err
	}
	if len(req.Messages) == 0 || req.Messages[len(req.Messages)-1].Role != llm.RoleUser {
		return llm.Credentials{}, &resume.MalformedInputError{Format: "chat", Err: errors.New("conversation must end with a user message")}
	}
	return creds, nil
}

func systemPrompt(doc resume.Document) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return fmt.Sprintf(`You are a resume editing assistant. You help the user improve the resume below.

Answer conversationally and briefly. When you want to change the resume, include one or more JSON Patch (RFC 6902) blocks wrapped in %s and %s, for example:
%s[{"op":"replace","path":"/basics/headline","value":"Senior Go Engineer"}]%s

Rules:
- Only "add", "replace" and "remove" operations are allowed.
- Paths follow the resume JSON below. Use "-" to append to an array.
- Descriptions and the summary content are HTML strings.
- Never invent facts the user did not give you.
- The user reviews every patch before it is applied.

Current resume:
%s`, openTag, closeTag, openTag, closeTag, data), nil
}
