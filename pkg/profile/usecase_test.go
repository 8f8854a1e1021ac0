package profile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/resumebuilder/pkg/resume"
)

type memRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]resume.Profile
	err      error
}

func (r *memRepo) GetProfile(_ context.Context, userID uuid.UUID) (resume.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return resume.Profile{}, r.err
	}
	p, ok := r.profiles[userID]
	if !ok {
		return resume.Profile{}, resume.ErrNotFound
	}
	return p, nil
}

func (r *memRepo) UpsertProfile(_ context.Context, userID uuid.UUID, p resume.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.profiles == nil {
		r.profiles = map[uuid.UUID]resume.Profile{}
	}
	r.profiles[userID] = p
	return nil
}

func TestGetWithoutProfile(t *testing.T) {
	p, err := NewService(&memRepo{}).Get(t.Context(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestGetPropagatesStorageErrors(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := NewService(&memRepo{err: boom}).Get(t.Context(), uuid.New())
	assert.ErrorIs(t, err, boom)
}

func TestUpsertReplacesWholeProfile(t *testing.T) {
	repo := &memRepo{}
	uc := NewService(repo)
	user := uuid.New()

	first := resume.DefaultProfile()
	first.Basics.Name = "Ada"
	first.Skills = []resume.SkillItem{{Item: resume.Item{ID: "s1"}, Name: "Go"}}
	require.NoError(t, uc.Upsert(t.Context(), user, first))

	second := resume.DefaultProfile()
	second.Basics.Name = "Ada Lovelace"
	require.NoError(t, uc.Upsert(t.Context(), user, second))

	got, err := uc.Get(t.Context(), user)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada Lovelace", got.Basics.Name)
	assert.Empty(t, got.Skills)
	assert.NotNil(t, got.Skills)
	assert.Len(t, repo.profiles, 1)
}

func TestUpsertNormalizes(t *testing.T) {
	repo := &memRepo{}
	user := uuid.New()
	p := resume.Profile{Basics: resume.Basics{Name: "Ada"}}
	p.Skills = []resume.SkillItem{{Item: resume.Item{ID: "s1"}, Name: "Go"}}

	require.NoError(t, NewService(repo).Upsert(t.Context(), user, p))
	stored := repo.profiles[user]
	assert.NotNil(t, stored.Experience)
	assert.NotNil(t, stored.Skills[0].Keywords)
}

func TestUpsertRejectsInvalidProfile(t *testing.T) {
	repo := &memRepo{}
	p := resume.DefaultProfile()
	p.Languages = []resume.LanguageItem{{Item: resume.Item{ID: "l1"}, Language: "English", Level: 7}}

	err := NewService(repo).Upsert(t.Context(), uuid.New(), p)
	assert.ErrorIs(t, err, resume.ErrValidation)
	assert.Empty(t, repo.profiles)
}
