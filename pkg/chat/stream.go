package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

const (
	openTag  = "<patch>"
	closeTag = "</patch>"
)

type EventType string

const (
	EventText  EventType = "text"
	EventPatch EventType = "patch"
	EventDone  EventType = "done"
)

// Event is one piece of the streamed reply.
type Event struct {
	Type       EventType   `json:"type"`
	Text       string      `json:"text,omitempty"`
	Operations []Operation `json:"operations,omitempty"`
}

// emitError marks failures of the caller's callback so they are not
// mistaken for provider errors.
type emitError struct{ err error }

func (e *emitError) Error() string { return e.err.Error() }
func (e *emitError) Unwrap() error { return e.err }

// splitter turns raw model deltas into text and patch events. Text that may
// be the start of an opening tag is held back until the next delta.
type splitter struct {
	ctx     context.Context
	emit    func(Event) error
	buf     string
	inPatch bool
}

func (s *splitter) send(ev Event) error {
	if err := s.emit(ev); err != nil {
		return &emitError{err: err}
	}
	return nil
}

func (s *splitter) write(delta string) error {
	s.buf += delta
	for {
		if s.inPatch {
			end := strings.Index(s.buf, closeTag)
			if end < 0 {
				return nil
			}
			body := s.buf[:end]
			s.buf = s.buf[end+len(closeTag):]
			s.inPatch = false
			ops, err := parseOperations(body)
			if err != nil {
				slog.WarnContext(s.ctx, "skip malformed patch block", "error", err)
				continue
			}
			if err := s.send(Event{Type: EventPatch, Operations: ops}); err != nil {
				return err
			}
			continue
		}

		start := strings.Index(s.buf, openTag)
		if start >= 0 {
			text := s.buf[:start]
			s.buf = s.buf[start+len(openTag):]
			s.inPatch = true
			if text != "" {
				if err := s.send(Event{Type: EventText, Text: text}); err != nil {
					return err
				}
			}
			continue
		}

		keep := partialTag(s.buf)
		text := s.buf[:len(s.buf)-keep]
		s.buf = s.buf[len(s.buf)-keep:]
		if text != "" {
			return s.send(Event{Type: EventText, Text: text})
		}
		return nil
	}
}

func (s *splitter) flush() error {
	if s.inPatch {
		slog.WarnContext(s.ctx, "drop unterminated patch block", "bytes", len(s.buf))
		s.buf = ""
		return nil
	}
	if s.buf == "" {
		return nil
	}
	text := s.buf
	s.buf = ""
	return s.send(Event{Type: EventText, Text: text})
}

// partialTag returns the length of the longest suffix of s that is a proper
// prefix of the opening tag.
func partialTag(s string) int {
	for n := min(len(openTag)-1, len(s)); n > 0; n-- {
		if strings.HasSuffix(s, openTag[:n]) {
			return n
		}
	}
	return 0
}

func parseOperations(body string) ([]Operation, error) {
	body = strings.TrimSpace(body)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	body = strings.TrimSpace(body)
	if strings.HasPrefix(body, "{") {
		body = "[" + body + "]"
	}
	var ops []Operation
	if err := json.Unmarshal([]byte(body), &ops); err != nil {
		return nil, fmt.Errorf("decode operations: %w", err)
	}
	if len(ops) == 0 {
		return nil, errors.New("empty patch")
	}
	for _, op := range ops {
		switch op.Op {
		case OpAdd, OpReplace, OpRemove:
		default:
			return nil, fmt.Errorf("unsupported op %q", op.Op)
		}
		if !strings.HasPrefix(op.Path, "/") {
			return nil, fmt.Errorf("invalid path %q", op.Path)
		}
	}
	return ops, nil
}
