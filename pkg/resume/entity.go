package resume

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Source tells where a stored resume came from.
type Source string

const (
	SourceBlank   Source = "blank"
	SourceProfile Source = "profile"
	SourcePDF     Source = "pdf"
	SourceDocx    Source = "docx"
	SourceChat    Source = "chat"
)

// Record — сохранённое резюме пользователя вместе с каноническим документом.
type Record struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Title     string    `json:"title"`
	Source    Source    `json:"source"`
	Data      Document  `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Repository — порт хранения резюме.
type Repository interface {
	Create(ctx context.Context, r Record) error
	GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (Record, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Record, error)
	UpdateData(ctx context.Context, ownerID, id uuid.UUID, doc Document, updatedAt time.Time) error
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}

// ProfileRepository — порт хранения мастер-профиля; не более одного на пользователя.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (Profile, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, p Profile) error
}
