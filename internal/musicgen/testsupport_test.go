package musicgen

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scottrhay/AIAMusic/internal/domain"
	"github.com/scottrhay/AIAMusic/internal/infra"
)

func testLogger() *infra.Logger {
	discard := zerolog.New(io.Discard)
	l := infra.Logger(discard)
	return &l
}

type fakeSongRepo struct {
	songs      map[string]*domain.Song
	updates    int
	failUpdate error
}

func newFakeSongRepo(songs ...*domain.Song) *fakeSongRepo {
	repo := &fakeSongRepo{songs: map[string]*domain.Song{}}
	for _, song := range songs {
		clone := *song
		repo.songs[song.ID] = &clone
	}
	return repo
}

func (r *fakeSongRepo) Create(_ context.Context, song *domain.Song) error {
	clone := *song
	r.songs[song.ID] = &clone
	return nil
}

func (r *fakeSongRepo) GetByID(_ context.Context, id string) (*domain.Song, error) {
	song, ok := r.songs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *song
	return &clone, nil
}

func (r *fakeSongRepo) GetByTaskID(_ context.Context, taskID string) (*domain.Song, error) {
	for _, song := range r.songs {
		if song.TaskID != nil && *song.TaskID == taskID {
			clone := *song
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeSongRepo) List(_ context.Context, filter domain.SongFilter) ([]domain.Song, error) {
	var out []domain.Song
	for _, song := range r.songs {
		if filter.UserID != "" && song.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && song.Status != filter.Status {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(song.SpecificTitle, filter.Search) &&
			!strings.Contains(song.SpecificLyrics, filter.Search) {
			continue
		}
		out = append(out, *song)
	}
	return out, nil
}

func (r *fakeSongRepo) Update(_ context.Context, song *domain.Song) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	if _, ok := r.songs[song.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *song
	r.songs[song.ID] = &clone
	r.updates++
	return nil
}

func (r *fakeSongRepo) MarkSubmitted(_ context.Context, id, taskID string) error {
	song, ok := r.songs[id]
	if !ok {
		return domain.ErrNotFound
	}
	song.TaskID = &taskID
	song.Status = domain.SongStatusSubmitted
	song.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeSongRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.songs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.songs, id)
	return nil
}

func (r *fakeSongRepo) Stats(_ context.Context, userID string, _ bool) (*domain.SongStats, error) {
	stats := &domain.SongStats{}
	for _, song := range r.songs {
		if userID != "" && song.UserID != userID {
			continue
		}
		stats.Total++
		switch song.Status {
		case domain.SongStatusCreate:
			stats.Create++
		case domain.SongStatusSubmitted:
			stats.Submitted++
		case domain.SongStatusCompleted:
			if song.FilledSlots() > 0 {
				stats.Completed++
			}
		case domain.SongStatusFailed:
			stats.Failed++
		case domain.SongStatusUnspecified:
			stats.Unspecified++
		}
	}
	return stats, nil
}

var _ domain.SongRepository = (*fakeSongRepo)(nil)

type fakeStyleRepo struct {
	styles map[string]*domain.Style
}

func newFakeStyleRepo(styles ...*domain.Style) *fakeStyleRepo {
	repo := &fakeStyleRepo{styles: map[string]*domain.Style{}}
	for _, style := range styles {
		clone := *style
		repo.styles[style.ID] = &clone
	}
	return repo
}

func (r *fakeStyleRepo) Create(_ context.Context, style *domain.Style) error {
	clone := *style
	r.styles[style.ID] = &clone
	return nil
}

func (r *fakeStyleRepo) GetByID(_ context.Context, id string) (*domain.Style, error) {
	style, ok := r.styles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *style
	return &clone, nil
}

func (r *fakeStyleRepo) GetByName(_ context.Context, name string) (*domain.Style, error) {
	for _, style := range r.styles {
		if style.Name == name {
			clone := *style
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeStyleRepo) List(_ context.Context) ([]domain.Style, error) {
	var out []domain.Style
	for _, style := range r.styles {
		out = append(out, *style)
	}
	return out, nil
}

func (r *fakeStyleRepo) Update(_ context.Context, style *domain.Style) error {
	if _, ok := r.styles[style.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *style
	r.styles[style.ID] = &clone
	return nil
}

func (r *fakeStyleRepo) Delete(_ context.Context, id string) error {
	delete(r.styles, id)
	return nil
}

func (r *fakeStyleRepo) CountSongs(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

var _ domain.StyleRepository = (*fakeStyleRepo)(nil)

// fakeGenerator records calls and plays back a canned submission.
type fakeGenerator struct {
	submission Submission
	err        error
	minSlots   int
	sync       bool
	calls      int
	lastSong   *domain.Song
	lastStyle  *domain.Style
}

func (g *fakeGenerator) Generate(_ context.Context, song *domain.Song, style *domain.Style) (Submission, error) {
	g.calls++
	g.lastSong = song
	g.lastStyle = style
	if g.err != nil {
		return Submission{}, g.err
	}
	return g.submission, nil
}

func (g *fakeGenerator) MinCompletionSlots() int {
	if g.minSlots > 0 {
		return g.minSlots
	}
	return 2
}

func (g *fakeGenerator) Synchronous() bool { return g.sync }

var _ Generator = (*fakeGenerator)(nil)

var errBoom = fmt.Errorf("boom")
