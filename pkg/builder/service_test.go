package builder

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/resumebuilder/pkg/chat"
	"github.com/artem13815/resumebuilder/pkg/events"
	"github.com/artem13815/resumebuilder/pkg/generator"
	"github.com/artem13815/resumebuilder/pkg/importer"
	"github.com/artem13815/resumebuilder/pkg/llm"
	"github.com/artem13815/resumebuilder/pkg/repository/memory"
	"github.com/artem13815/resumebuilder/pkg/resume"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	svc      *Service
	repo     *memory.ResumeRepository
	profiles *memory.ProfileRepository
	events   *recorder
	owner    uuid.UUID
}

func newFixture() fixture {
	f := fixture{
		repo:     memory.NewResumeRepository(),
		profiles: memory.NewProfileRepository(),
		events:   &recorder{},
		owner:    uuid.New(),
	}
	f.svc = NewService(f.repo, f.profiles, generator.New(nil, llm.Credentials{}), f.events)
	return f
}

const jsonResume = `{"basics":{"name":"Ada Lovelace","label":"Engineer"},"skills":[{"name":"Go","level":"Advanced"}]}`

func TestImportJSON(t *testing.T) {
	f := newFixture()

	rec, err := f.svc.ImportJSON(t.Context(), f.owner, importer.FormatJSONResume, jsonResume, "")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", rec.Title)
	assert.Equal(t, resume.Source(importer.FormatJSONResume), rec.Source)
	assert.Equal(t, "Go", rec.Data.Sections.Skills.Items[0].Name)

	stored, err := f.svc.Get(t.Context(), f.owner, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Data, stored.Data)
	assert.Equal(t, []string{events.ResumeCreated}, f.events.types())
}

func TestImportJSONFailureStoresNothing(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ImportJSON(t.Context(), f.owner, importer.FormatJSONResume, "{not json", "x")
	assert.ErrorIs(t, err, resume.ErrMalformedInput)

	_, err = f.svc.ImportJSON(t.Context(), f.owner, "word-doc", jsonResume, "x")
	assert.ErrorIs(t, err, importer.ErrUnknownFormat)

	list, err := f.svc.List(t.Context(), f.owner, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, f.events.types())
}

func TestSaveImportedRevalidates(t *testing.T) {
	f := newFixture()
	doc := resume.DefaultDocument()
	doc.Sections.Skills.Items = []resume.SkillItem{{Item: resume.Item{ID: "a"}}, {Item: resume.Item{ID: "a"}}}

	_, err := f.svc.SaveImported(t.Context(), f.owner, "cv", resume.SourcePDF, doc)
	assert.ErrorIs(t, err, resume.ErrValidation)

	doc.Sections.Skills.Items[1].ID = "b"
	rec, err := f.svc.SaveImported(t.Context(), f.owner, "  ", resume.SourcePDF, doc)
	require.NoError(t, err)
	assert.Equal(t, untitled, rec.Title)
	assert.Equal(t, resume.SourcePDF, rec.Source)
}

func TestGenerateFromProfile(t *testing.T) {
	f := newFixture()

	rec, err := f.svc.GenerateFromProfile(t.Context(), f.owner, "", "")
	require.NoError(t, err)
	assert.Equal(t, untitled, rec.Title)
	assert.True(t, rec.Data.Sections.Experience.Hidden)

	p := resume.DefaultProfile()
	p.Basics.Name = "Ada Lovelace"
	p.Skills = []resume.SkillItem{{Item: resume.Item{ID: "s1"}, Name: "Go", Proficiency: "Advanced", Keywords: []string{}}}
	require.NoError(t, f.profiles.UpsertProfile(t.Context(), f.owner, p))

	rec, err = f.svc.GenerateFromProfile(t.Context(), f.owner, "Go developer", "For Acme")
	require.NoError(t, err)
	assert.Equal(t, "For Acme", rec.Title)
	assert.Equal(t, resume.SourceProfile, rec.Source)
	assert.False(t, rec.Data.Sections.Skills.Hidden)
	assert.Equal(t, "s1", rec.Data.Sections.Skills.Items[0].ID)
}

func TestPatch(t *testing.T) {
	f := newFixture()
	rec, err := f.svc.ImportJSON(t.Context(), f.owner, importer.FormatJSONResume, jsonResume, "")
	require.NoError(t, err)

	patched, err := f.svc.Patch(t.Context(), f.owner, rec.ID, []chat.Operation{
		{Op: chat.OpReplace, Path: "/basics/headline", Value: json.RawMessage(`"Staff Engineer"`)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", patched.Data.Basics.Headline)

	stored, err := f.svc.Get(t.Context(), f.owner, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", stored.Data.Basics.Headline)

	_, err = f.svc.Patch(t.Context(), f.owner, rec.ID, []chat.Operation{
		{Op: chat.OpReplace, Path: "/sections/skills/items/0/level", Value: json.RawMessage(`42`)},
	})
	assert.ErrorIs(t, err, resume.ErrValidation)
	stored, err = f.svc.Get(t.Context(), f.owner, rec.ID)
	require.NoError(t, err)
	assert.NotEqual(t, 42, stored.Data.Sections.Skills.Items[0].Level)

	_, err = f.svc.Patch(t.Context(), uuid.New(), rec.ID, nil)
	assert.ErrorIs(t, err, resume.ErrNotFound)
	assert.Equal(t, []string{events.ResumeCreated, events.ResumeUpdated}, f.events.types())
}

func TestDeleteAndOwnership(t *testing.T) {
	f := newFixture()
	rec, err := f.svc.ImportJSON(t.Context(), f.owner, importer.FormatJSONResume, jsonResume, "")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(t.Context(), uuid.New(), rec.ID), resume.ErrNotFound)
	require.NoError(t, f.svc.Delete(t.Context(), f.owner, rec.ID))
	_, err = f.svc.Get(t.Context(), f.owner, rec.ID)
	assert.ErrorIs(t, err, resume.ErrNotFound)
}

func TestEventFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.events.err = errors.New("broker down")

	_, err := f.svc.ImportJSON(t.Context(), f.owner, importer.FormatJSONResume, jsonResume, "")
	require.NoError(t, err)
}
