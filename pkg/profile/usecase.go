// Package profile manages the master profile each user keeps: the superset
// of their career data that resumes are generated from.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/artem13815/resumebuilder/pkg/resume"
)

// UseCase описывает работу с мастер-профилем пользователя.
type UseCase interface {
	// Get returns nil when the user has not saved a profile yet.
	Get(ctx context.Context, userID uuid.UUID) (*resume.Profile, error)
	// Upsert validates p and replaces the stored profile as a whole.
	Upsert(ctx context.Context, userID uuid.UUID, p resume.Profile) error
}

type service struct {
	repo resume.ProfileRepository
}

func NewService(repo resume.ProfileRepository) UseCase {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*resume.Profile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if errors.Is(err, resume.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *service) Upsert(ctx context.Context, userID uuid.UUID, p resume.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	// ParseProfile returns the normalized form: no null arrays get stored.
	clean, err := resume.ParseProfile(raw)
	if err != nil {
		return err
	}
	return s.repo.UpsertProfile(ctx, userID, clean)
}
