package domain

import "context"

// SongRepository defines persistence for song entities. Every write is a
// single atomic commit; MarkSubmitted in particular persists the provider
// correlation id together with the submitted transition so the two can never
// diverge.
type SongRepository interface {
	Create(ctx context.Context, song *Song) error
	GetByID(ctx context.Context, id string) (*Song, error)
	GetByTaskID(ctx context.Context, taskID string) (*Song, error)
	List(ctx context.Context, filter SongFilter) ([]Song, error)
	Update(ctx context.Context, song *Song) error
	MarkSubmitted(ctx context.Context, id, taskID string) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, userID string, allUsers bool) (*SongStats, error)
}

// StyleRepository defines persistence for styles.
type StyleRepository interface {
	Create(ctx context.Context, style *Style) error
	GetByID(ctx context.Context, id string) (*Style, error)
	GetByName(ctx context.Context, name string) (*Style, error)
	List(ctx context.Context) ([]Style, error)
	Update(ctx context.Context, style *Style) error
	Delete(ctx context.Context, id string) error
	CountSongs(ctx context.Context, id string) (int64, error)
}

// UserRepository defines the read-only identity surface.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}
