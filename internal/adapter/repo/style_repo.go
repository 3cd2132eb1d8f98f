package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scottrhay/AIAMusic/internal/domain"
)

// StyleRepositoryPG implements domain.StyleRepository.
type StyleRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewStyleRepository creates a new style repository backed by PostgreSQL.
func NewStyleRepository(pool *pgxpool.Pool) *StyleRepositoryPG {
	return &StyleRepositoryPG{pool: pool}
}

const uniqueViolation = "23505"

// Create inserts a new style. A duplicate name maps to domain.ErrConflict.
func (r *StyleRepositoryPG) Create(ctx context.Context, style *domain.Style) error {
	query := `
INSERT INTO styles (id, name, style_prompt, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6);
`
	_, err := r.pool.Exec(ctx, query,
		style.ID,
		style.Name,
		style.StylePrompt,
		style.CreatedBy,
		style.CreatedAt,
		style.UpdatedAt,
	)
	return mapUniqueViolation(err)
}

// GetByID fetches a style by its identifier.
func (r *StyleRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Style, error) {
	query := `SELECT id, name, style_prompt, created_by, created_at, updated_at FROM styles WHERE id = $1;`
	return r.scanStyle(r.pool.QueryRow(ctx, query, id))
}

// GetByName fetches a style by its unique name.
func (r *StyleRepositoryPG) GetByName(ctx context.Context, name string) (*domain.Style, error) {
	query := `SELECT id, name, style_prompt, created_by, created_at, updated_at FROM styles WHERE name = $1;`
	return r.scanStyle(r.pool.QueryRow(ctx, query, name))
}

// List returns every style ordered by name.
func (r *StyleRepositoryPG) List(ctx context.Context) ([]domain.Style, error) {
	query := `SELECT id, name, style_prompt, created_by, created_at, updated_at FROM styles ORDER BY name;`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var styles []domain.Style
	for rows.Next() {
		style, err := r.scanStyle(rows)
		if err != nil {
			return nil, err
		}
		styles = append(styles, *style)
	}
	return styles, rows.Err()
}

// Update overwrites the style's mutable fields.
func (r *StyleRepositoryPG) Update(ctx context.Context, style *domain.Style) error {
	query := `
UPDATE styles
SET name = $2,
    style_prompt = $3,
    updated_at = NOW()
WHERE id = $1;
`
	tag, err := r.pool.Exec(ctx, query, style.ID, style.Name, style.StylePrompt)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a style. Referencing songs are checked by the caller via
// CountSongs before this is invoked.
func (r *StyleRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM styles WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountSongs reports how many songs still reference the style.
func (r *StyleRepositoryPG) CountSongs(ctx context.Context, id string) (int64, error) {
	var count int64
	row := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM songs WHERE style_id = $1;`, id)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *StyleRepositoryPG) scanStyle(row pgx.Row) (*domain.Style, error) {
	var style domain.Style
	if err := row.Scan(
		&style.ID,
		&style.Name,
		&style.StylePrompt,
		&style.CreatedBy,
		&style.CreatedAt,
		&style.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &style, nil
}

func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrConflict
	}
	return err
}
