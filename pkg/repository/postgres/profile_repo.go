package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/resumebuilder/pkg/resume"
)

// ProfileRepository хранит мастер-профили в таблице user_info.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (resume.Profile, error) {
	var data []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM user_info WHERE user_id = $1`, userID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return resume.Profile{}, resume.ErrNotFound
	}
	if err != nil {
		return resume.Profile{}, err
	}
	p, err := resume.ParseProfile(data)
	if err != nil {
		return resume.Profile{}, fmt.Errorf("stored profile of %s: %w", userID, err)
	}
	return p, nil
}

// UpsertProfile is a single statement; the unique key on user_id makes
// concurrent upserts for one user converge on one row.
func (r *ProfileRepository) UpsertProfile(ctx context.Context, userID uuid.UUID, p resume.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO user_info (user_id, data)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
`, userID, data)
	return err
}
