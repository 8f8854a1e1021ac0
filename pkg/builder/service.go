// Package builder holds the use cases behind a user's stored resumes:
// importing, generating, patching and listing them.
package builder

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/resumebuilder/pkg/chat"
	"github.com/artem13815/resumebuilder/pkg/events"
	"github.com/artem13815/resumebuilder/pkg/importer"
	"github.com/artem13815/resumebuilder/pkg/resume"
)

const untitled = "Untitled resume"

// Generator builds a resume from a master profile.
type Generator interface {
	Generate(ctx context.Context, p resume.Profile, jobDescription string) (resume.Document, error)
}

type Service struct {
	repo     resume.Repository
	profiles resume.ProfileRepository
	gen      Generator
	events   events.Publisher
	now      func() time.Time
}

func NewService(repo resume.Repository, profiles resume.ProfileRepository, gen Generator, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Noop{}
	}
	return &Service{
		repo:     repo,
		profiles: profiles,
		gen:      gen,
		events:   pub,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ImportJSON converts raw text with the importer for format and stores the
// result. Nothing is stored when the import fails.
func (s *Service) ImportJSON(ctx context.Context, ownerID uuid.UUID, format importer.Format, raw, title string) (resume.Record, error) {
	doc, err := importer.Parse(format, raw)
	if err != nil {
		return resume.Record{}, err
	}
	return s.create(ctx, ownerID, title, resume.Source(format), doc)
}

// SaveImported stores a document produced elsewhere, e.g. by the PDF or
// DOCX importers, after validating it again.
func (s *Service) SaveImported(ctx context.Context, ownerID uuid.UUID, title string, source resume.Source, doc resume.Document) (resume.Record, error) {
	if err := resume.Validate(doc); err != nil {
		return resume.Record{}, err
	}
	if source == "" {
		source = resume.SourceBlank
	}
	return s.create(ctx, ownerID, title, source, doc)
}

// GenerateFromProfile generates from the stored master profile; users
// without one get a resume built from the empty profile.
func (s *Service) GenerateFromProfile(ctx context.Context, ownerID uuid.UUID, jobDescription, title string) (resume.Record, error) {
	p, err := s.profiles.GetProfile(ctx, ownerID)
	if errors.Is(err, resume.ErrNotFound) {
		p, err = resume.DefaultProfile(), nil
	}
	if err != nil {
		return resume.Record{}, err
	}
	doc, err := s.gen.Generate(ctx, p, jobDescription)
	if err != nil {
		return resume.Record{}, err
	}
	return s.create(ctx, ownerID, title, resume.SourceProfile, doc)
}

func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (resume.Record, error) {
	return s.repo.GetForOwner(ctx, ownerID, id)
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]resume.Record, error) {
	return s.repo.ListByOwner(ctx, ownerID, limit, offset)
}

// Patch applies chat-proposed operations and persists the revalidated result.
func (s *Service) Patch(ctx context.Context, ownerID, id uuid.UUID, ops []chat.Operation) (resume.Record, error) {
	rec, err := s.repo.GetForOwner(ctx, ownerID, id)
	if err != nil {
		return resume.Record{}, err
	}
	doc, err := chat.Apply(rec.Data, ops)
	if err != nil {
		return resume.Record{}, err
	}
	rec.Data = doc
	rec.UpdatedAt = s.now()
	if err := s.repo.UpdateData(ctx, ownerID, id, doc, rec.UpdatedAt); err != nil {
		return resume.Record{}, err
	}
	s.publish(ctx, events.ResumeUpdated, rec)
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.repo.DeleteForOwner(ctx, ownerID, id); err != nil {
		return err
	}
	s.publish(ctx, events.ResumeDeleted, resume.Record{ID: id, OwnerID: ownerID})
	return nil
}

func (s *Service) create(ctx context.Context, ownerID uuid.UUID, title string, source resume.Source, doc resume.Document) (resume.Record, error) {
	now := s.now()
	rec := resume.Record{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     titleFor(title, doc),
		Source:    source,
		Data:      doc,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return resume.Record{}, err
	}
	s.publish(ctx, events.ResumeCreated, rec)
	return rec, nil
}

func (s *Service) publish(ctx context.Context, kind string, rec resume.Record) {
	err := s.events.Publish(ctx, events.Event{
		Type:       kind,
		ResumeID:   rec.ID,
		OwnerID:    rec.OwnerID,
		Source:     string(rec.Source),
		OccurredAt: s.now(),
	})
	if err != nil {
		slog.WarnContext(ctx, "publish resume event", "type", kind, "resume_id", rec.ID, "error", err)
	}
}

func titleFor(title string, doc resume.Document) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	if name := strings.TrimSpace(doc.Basics.Name); name != "" {
		return name
	}
	return untitled
}
