package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/resumebuilder/pkg/resume"
)

// ResumeRepository хранит резюме пользователей; документ лежит в jsonb.
type ResumeRepository struct {
	pool *pgxpool.Pool
}

func NewResumeRepository(pool *pgxpool.Pool) *ResumeRepository {
	return &ResumeRepository{pool: pool}
}

func (r *ResumeRepository) Create(ctx context.Context, rec resume.Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("encode resume: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO resumes (id, owner_id, title, source, data, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, rec.ID, rec.OwnerID, rec.Title, string(rec.Source), data, rec.CreatedAt, rec.UpdatedAt)
	return err
}

func (r *ResumeRepository) GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (resume.Record, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, owner_id, title, source, data, created_at, updated_at
FROM resumes WHERE id = $1 AND owner_id = $2
`, id, ownerID)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return resume.Record{}, resume.ErrNotFound
	}
	return rec, err
}

func (r *ResumeRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]resume.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, owner_id, title, source, data, created_at, updated_at
FROM resumes WHERE owner_id = $3
ORDER BY updated_at DESC
LIMIT $1 OFFSET $2
`, limit, offset, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []resume.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

func (r *ResumeRepository) UpdateData(ctx context.Context, ownerID, id uuid.UUID, doc resume.Document, updatedAt time.Time) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode resume: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `
UPDATE resumes SET data = $1, updated_at = $2 WHERE id = $3 AND owner_id = $4
`, data, updatedAt, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return resume.ErrNotFound
	}
	return nil
}

func (r *ResumeRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return resume.ErrNotFound
	}
	return nil
}

func scanRecord(row pgx.Row) (resume.Record, error) {
	var rec resume.Record
	var source string
	var data []byte
	if err := row.Scan(&rec.ID, &rec.OwnerID, &rec.Title, &source, &data, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return resume.Record{}, err
	}
	doc, err := resume.Parse(data)
	if err != nil {
		return resume.Record{}, fmt.Errorf("stored resume %s: %w", rec.ID, err)
	}
	rec.Source = resume.Source(source)
	rec.Data = doc
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}
