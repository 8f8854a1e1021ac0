// Package memory provides in-process repositories for tests and local tools.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/resumebuilder/pkg/resume"
)

type ResumeRepository struct {
	mu      sync.Mutex
	records map[uuid.UUID]resume.Record
}

func NewResumeRepository() *ResumeRepository {
	return &ResumeRepository{records: map[uuid.UUID]resume.Record{}}
}

func (r *ResumeRepository) Create(_ context.Context, rec resume.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.Data = rec.Data.Clone()
	r.records[rec.ID] = rec
	return nil
}

func (r *ResumeRepository) GetForOwner(_ context.Context, ownerID, id uuid.UUID) (resume.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.OwnerID != ownerID {
		return resume.Record{}, resume.ErrNotFound
	}
	rec.Data = rec.Data.Clone()
	return rec, nil
}

func (r *ResumeRepository) ListByOwner(_ context.Context, ownerID uuid.UUID, limit, offset int) ([]resume.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []resume.Record{}
	for _, rec := range r.records {
		if rec.OwnerID == ownerID {
			rec.Data = rec.Data.Clone()
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if offset >= len(out) {
		return []resume.Record{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *ResumeRepository) UpdateData(_ context.Context, ownerID, id uuid.UUID, doc resume.Document, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.OwnerID != ownerID {
		return resume.ErrNotFound
	}
	rec.Data = doc.Clone()
	rec.UpdatedAt = updatedAt
	r.records[id] = rec
	return nil
}

func (r *ResumeRepository) DeleteForOwner(_ context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.OwnerID != ownerID {
		return resume.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

type ProfileRepository struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]resume.Profile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: map[uuid.UUID]resume.Profile{}}
}

func (r *ProfileRepository) GetProfile(_ context.Context, userID uuid.UUID) (resume.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return resume.Profile{}, resume.ErrNotFound
	}
	return p, nil
}

func (r *ProfileRepository) UpsertProfile(_ context.Context, userID uuid.UUID, p resume.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[userID] = p
	return nil
}
