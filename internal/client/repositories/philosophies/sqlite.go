package philosophies

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/philosophies/internal/client/models"
	"github.com/dmitrijs2005/philosophies/internal/common"
	"github.com/dmitrijs2005/philosophies/internal/dbx"
)

var _ Repository = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `id, title, description, full_description, image, category, principles, created_at, updated_at`

func (r *SQLiteRepository) Upsert(ctx context.Context, p *models.Philosophy) error {
	full, err := encodeList(p.FullDescription)
	if err != nil {
		return fmt.Errorf("failed to encode full description: %w", err)
	}
	principles, err := encodeList(p.Principles)
	if err != nil {
		return fmt.Errorf("failed to encode principles: %w", err)
	}

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	query := `
		INSERT INTO philosophies (id, title, description, full_description, image, category, principles, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			full_description = excluded.full_description,
			image = excluded.image,
			category = excluded.category,
			principles = excluded.principles,
			updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Description, full, p.Image, p.Category, principles,
		p.CreatedAt.Unix(), p.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert philosophy %q: %w", p.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Philosophy, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM philosophies ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to select philosophies: %w", err)
	}
	defer rows.Close()

	result := []models.Philosophy{}
	for rows.Next() {
		p, err := scanPhilosophy(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate philosophies: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Philosophy, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM philosophies WHERE id = ?`, id)
	p, err := scanPhilosophy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("philosophy %q: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM philosophies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete philosophy %q: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("philosophy %q: %w", id, common.ErrorNotFound)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM philosophies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count philosophies: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPhilosophy(s scanner) (*models.Philosophy, error) {
	var (
		p                models.Philosophy
		full, principles string
		created, updated int64
	)
	err := s.Scan(&p.ID, &p.Title, &p.Description, &full, &p.Image, &p.Category, &principles, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan philosophy: %w", err)
	}

	if p.FullDescription, err = decodeList(full); err != nil {
		return nil, fmt.Errorf("philosophy %q: full description: %w", p.ID, err)
	}
	if p.Principles, err = decodeList(principles); err != nil {
		return nil, fmt.Errorf("philosophy %q: principles: %w", p.ID, err)
	}
	p.CreatedAt = time.Unix(created, 0).UTC()
	p.UpdatedAt = time.Unix(updated, 0).UTC()
	return &p, nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	return string(b), err
}

// decodeList returns nil for an empty array so that "no principles" reads
// back the way it was written.
func decodeList(s string) ([]string, error) {
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}
