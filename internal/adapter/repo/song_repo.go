package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scottrhay/AIAMusic/internal/domain"
)

// SongRepositoryPG implements domain.SongRepository.
type SongRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewSongRepository creates a new song repository backed by PostgreSQL.
func NewSongRepository(pool *pgxpool.Pool) *SongRepositoryPG {
	return &SongRepositoryPG{pool: pool}
}

const songColumns = `id, user_id, provider, status, specific_title, version, star_rating,
specific_lyrics, prompt_to_generate, style_id, vocal_gender,
download_url_1, downloaded_url_1, download_url_2, downloaded_url_2,
task_id, created_at, updated_at`

// Create inserts a new song record.
func (r *SongRepositoryPG) Create(ctx context.Context, song *domain.Song) error {
	query := `
INSERT INTO songs (id, user_id, provider, status, specific_title, version, star_rating,
	specific_lyrics, prompt_to_generate, style_id, vocal_gender,
	download_url_1, downloaded_url_1, download_url_2, downloaded_url_2,
	task_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
`
	_, err := r.pool.Exec(ctx, query,
		song.ID,
		song.UserID,
		song.Provider,
		song.Status,
		song.SpecificTitle,
		song.Version,
		song.StarRating,
		song.SpecificLyrics,
		song.PromptToGenerate,
		song.StyleID,
		song.VocalGender,
		song.DownloadURL1,
		song.Downloaded1,
		song.DownloadURL2,
		song.Downloaded2,
		song.TaskID,
		song.CreatedAt,
		song.UpdatedAt,
	)
	return err
}

// GetByID fetches a song by its identifier.
func (r *SongRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE id = $1;`
	return r.scanSong(r.pool.QueryRow(ctx, query, id))
}

// GetByTaskID fetches the song holding the given provider correlation id.
func (r *SongRepositoryPG) GetByTaskID(ctx context.Context, taskID string) (*domain.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE task_id = $1;`
	return r.scanSong(r.pool.QueryRow(ctx, query, taskID))
}

// List returns songs matching the filter, newest first.
func (r *SongRepositoryPG) List(ctx context.Context, filter domain.SongFilter) ([]domain.Song, error) {
	var conditions []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.UserID != "" {
		conditions = append(conditions, "user_id = "+arg(filter.UserID))
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = "+arg(filter.Status))
	}
	if filter.StyleID != "" {
		conditions = append(conditions, "style_id = "+arg(filter.StyleID))
	}
	if filter.VocalGender != "" {
		conditions = append(conditions, "vocal_gender = "+arg(filter.VocalGender))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conditions = append(conditions, "(specific_title ILIKE "+arg(pattern)+" OR specific_lyrics ILIKE "+arg(pattern)+")")
	}
	query := `SELECT ` + songColumns + ` FROM songs`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC;"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []domain.Song
	for rows.Next() {
		song, err := r.scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, *song)
	}
	return songs, rows.Err()
}

// Update overwrites every mutable field in one commit.
func (r *SongRepositoryPG) Update(ctx context.Context, song *domain.Song) error {
	query := `
UPDATE songs
SET status = $2,
    specific_title = $3,
    version = $4,
    star_rating = $5,
    specific_lyrics = $6,
    prompt_to_generate = $7,
    style_id = $8,
    vocal_gender = $9,
    download_url_1 = $10,
    downloaded_url_1 = $11,
    download_url_2 = $12,
    downloaded_url_2 = $13,
    task_id = $14,
    updated_at = NOW()
WHERE id = $1;
`
	tag, err := r.pool.Exec(ctx, query,
		song.ID,
		song.Status,
		song.SpecificTitle,
		song.Version,
		song.StarRating,
		song.SpecificLyrics,
		song.PromptToGenerate,
		song.StyleID,
		song.VocalGender,
		song.DownloadURL1,
		song.Downloaded1,
		song.DownloadURL2,
		song.Downloaded2,
		song.TaskID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkSubmitted persists the provider correlation id and the submitted
// transition in a single commit so the two can never diverge.
func (r *SongRepositoryPG) MarkSubmitted(ctx context.Context, id, taskID string) error {
	query := `
UPDATE songs
SET status = $2,
    task_id = $3,
    updated_at = NOW()
WHERE id = $1;
`
	tag, err := r.pool.Exec(ctx, query, id, domain.SongStatusSubmitted, taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a song.
func (r *SongRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM songs WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Stats aggregates per-status counts. Completed only counts songs with at
// least one result URL, guarding against a stale completed label.
func (r *SongRepositoryPG) Stats(ctx context.Context, userID string, allUsers bool) (*domain.SongStats, error) {
	query := `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE status = 'create'),
	COUNT(*) FILTER (WHERE status = 'submitted'),
	COUNT(*) FILTER (WHERE status = 'completed' AND (download_url_1 IS NOT NULL OR download_url_2 IS NOT NULL)),
	COUNT(*) FILTER (WHERE status = 'failed'),
	COUNT(*) FILTER (WHERE status = 'unspecified')
FROM songs
WHERE $1::uuid IS NULL OR user_id = $1;
`
	var scope *string
	if !allUsers && userID != "" {
		scope = &userID
	}
	var stats domain.SongStats
	row := r.pool.QueryRow(ctx, query, scope)
	if err := row.Scan(&stats.Total, &stats.Create, &stats.Submitted, &stats.Completed, &stats.Failed, &stats.Unspecified); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *SongRepositoryPG) scanSong(row pgx.Row) (*domain.Song, error) {
	var song domain.Song
	if err := row.Scan(
		&song.ID,
		&song.UserID,
		&song.Provider,
		&song.Status,
		&song.SpecificTitle,
		&song.Version,
		&song.StarRating,
		&song.SpecificLyrics,
		&song.PromptToGenerate,
		&song.StyleID,
		&song.VocalGender,
		&song.DownloadURL1,
		&song.Downloaded1,
		&song.DownloadURL2,
		&song.Downloaded2,
		&song.TaskID,
		&song.CreatedAt,
		&song.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &song, nil
}
