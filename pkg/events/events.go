// Package events publishes resume lifecycle notifications.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	ResumeCreated = "resume.created"
	ResumeUpdated = "resume.updated"
	ResumeDeleted = "resume.deleted"
)

// Event is the message body sent for every lifecycle change.
type Event struct {
	Type       string    `json:"type"`
	ResumeID   uuid.UUID `json:"resumeId"`
	OwnerID    uuid.UUID `json:"ownerId"`
	Source     string    `json:"source,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
