// Package musicgen owns the song lifecycle: creation, submission to a
// generation provider, the recreate/reset flow, and reconciliation of
// asynchronous provider callbacks back onto song records.
package musicgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scottrhay/AIAMusic/internal/domain"
	"github.com/scottrhay/AIAMusic/internal/infra"
)

// Service fronts the song store and triggers provider submissions. It is
// parameterized over the Generator capability, one per provider name.
type Service struct {
	songs      domain.SongRepository
	styles     domain.StyleRepository
	generators map[string]Generator
	logger     *infra.Logger
}

// NewService wires the lifecycle service.
func NewService(songs domain.SongRepository, styles domain.StyleRepository, generators map[string]Generator, logger *infra.Logger) *Service {
	return &Service{songs: songs, styles: styles, generators: generators, logger: logger}
}

// CreateInput carries the generation parameters for a new song.
type CreateInput struct {
	Provider         string
	Status           domain.SongStatus
	SpecificTitle    string
	Version          string
	SpecificLyrics   string
	PromptToGenerate string
	StyleID          *string
	VocalGender      domain.VocalGender
}

// UpdateInput is a partial update; nil fields are left untouched. An empty
// StyleID clears the style reference.
type UpdateInput struct {
	SpecificTitle    *string
	SpecificLyrics   *string
	PromptToGenerate *string
	StyleID          *string
	VocalGender      *domain.VocalGender
	Status           *domain.SongStatus
	StarRating       *int
	Downloaded1      *bool
	Downloaded2      *bool
}

// Create persists a new song and, when its initial status is create (the
// default), immediately submits it. A failed submission removes the record
// again and surfaces the provider error: the caller never ends up with a
// half-created song it did not ask to keep. Recreate deliberately behaves
// differently, see Recreate.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*domain.Song, error) {
	provider := strings.TrimSpace(in.Provider)
	if provider == "" {
		provider = domain.ProviderSuno
	}
	if _, ok := s.generators[provider]; !ok {
		return nil, fmt.Errorf("%w: unsupported provider %q", domain.ErrValidation, provider)
	}
	status := in.Status
	if status == "" {
		status = domain.SongStatusCreate
	}
	if !domain.ValidSongStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	if in.StyleID != nil {
		if _, err := s.styles.GetByID(ctx, *in.StyleID); err != nil {
			return nil, fmt.Errorf("style: %w", err)
		}
	}
	version := in.Version
	if version == "" {
		version = "v1"
	}

	now := time.Now().UTC()
	song := &domain.Song{
		ID:               uuid.NewString(),
		UserID:           userID,
		Provider:         provider,
		Status:           status,
		SpecificTitle:    in.SpecificTitle,
		Version:          version,
		SpecificLyrics:   in.SpecificLyrics,
		PromptToGenerate: in.PromptToGenerate,
		StyleID:          in.StyleID,
		VocalGender:      in.VocalGender,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.songs.Create(ctx, song); err != nil {
		return nil, fmt.Errorf("create song: %w", err)
	}

	if song.Status == domain.SongStatusCreate {
		if err := s.submit(ctx, song); err != nil {
			s.logger.Error().Err(err).Str("song_id", song.ID).Msg("submission failed, removing created song")
			if delErr := s.songs.Delete(ctx, song.ID); delErr != nil {
				s.logger.Error().Err(delErr).Str("song_id", song.ID).Msg("failed to remove song after failed submission")
			}
			return nil, err
		}
	}
	return song, nil
}

// Update applies a partial, owner-only update.
func (s *Service) Update(ctx context.Context, userID, songID string, in UpdateInput) (*domain.Song, error) {
	song, err := s.ownedSong(ctx, userID, songID)
	if err != nil {
		return nil, err
	}
	if in.StyleID != nil && *in.StyleID != "" {
		if _, err := s.styles.GetByID(ctx, *in.StyleID); err != nil {
			return nil, fmt.Errorf("style: %w", err)
		}
	}
	if in.StarRating != nil && (*in.StarRating < 0 || *in.StarRating > 5) {
		return nil, fmt.Errorf("%w: star rating must be between 0 and 5", domain.ErrValidation)
	}
	if in.Status != nil && !domain.ValidSongStatus(*in.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *in.Status)
	}

	if in.SpecificTitle != nil {
		song.SpecificTitle = *in.SpecificTitle
	}
	if in.SpecificLyrics != nil {
		song.SpecificLyrics = *in.SpecificLyrics
	}
	if in.PromptToGenerate != nil {
		song.PromptToGenerate = *in.PromptToGenerate
	}
	if in.StyleID != nil {
		if *in.StyleID == "" {
			song.StyleID = nil
		} else {
			song.StyleID = in.StyleID
		}
	}
	if in.VocalGender != nil {
		song.VocalGender = *in.VocalGender
	}
	if in.Status != nil {
		song.Status = *in.Status
	}
	if in.StarRating != nil {
		song.StarRating = *in.StarRating
	}
	if in.Downloaded1 != nil {
		song.Downloaded1 = *in.Downloaded1
	}
	if in.Downloaded2 != nil {
		song.Downloaded2 = *in.Downloaded2
	}
	song.UpdatedAt = time.Now().UTC()
	if err := s.songs.Update(ctx, song); err != nil {
		return nil, fmt.Errorf("update song: %w", err)
	}
	return song, nil
}

// Recreate resets both result slots, forces status back to create, commits
// that reset, then resubmits. The committed reset is not rolled back when
// the submission fails: the durable reset and the remote call are decoupled
// on purpose, unlike Create.
func (s *Service) Recreate(ctx context.Context, userID, songID string) (*domain.Song, error) {
	song, err := s.ownedSong(ctx, userID, songID)
	if err != nil {
		return nil, err
	}

	song.DownloadURL1 = nil
	song.DownloadURL2 = nil
	song.Downloaded1 = false
	song.Downloaded2 = false
	song.Status = domain.SongStatusCreate
	song.UpdatedAt = time.Now().UTC()
	if err := s.songs.Update(ctx, song); err != nil {
		return nil, fmt.Errorf("reset song: %w", err)
	}

	if err := s.submit(ctx, song); err != nil {
		if gen, ok := s.generators[song.Provider]; ok && gen.Synchronous() {
			song.Status = domain.SongStatusFailed
			song.UpdatedAt = time.Now().UTC()
			if markErr := s.songs.Update(ctx, song); markErr != nil {
				s.logger.Error().Err(markErr).Str("song_id", song.ID).Msg("failed to mark song failed")
			}
		}
		return nil, err
	}
	return song, nil
}

// Delete removes an owned song.
func (s *Service) Delete(ctx context.Context, userID, songID string) error {
	song, err := s.ownedSong(ctx, userID, songID)
	if err != nil {
		return err
	}
	if err := s.songs.Delete(ctx, song.ID); err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	return nil
}

// Get loads one song; any authenticated identity may read it.
func (s *Service) Get(ctx context.Context, songID string) (*domain.Song, error) {
	return s.songs.GetByID(ctx, songID)
}

// List returns songs newest first, scoped to the acting user unless the
// filter explicitly opens it to all users.
func (s *Service) List(ctx context.Context, userID string, filter domain.SongFilter) ([]domain.Song, error) {
	if !filter.AllUsers {
		filter.UserID = userID
	} else {
		filter.UserID = ""
	}
	songs, err := s.songs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	return songs, nil
}

// Stats aggregates per-status counts.
func (s *Service) Stats(ctx context.Context, userID string, allUsers bool) (*domain.SongStats, error) {
	if allUsers {
		userID = ""
	}
	return s.songs.Stats(ctx, userID, allUsers)
}

func (s *Service) ownedSong(ctx context.Context, userID, songID string) (*domain.Song, error) {
	song, err := s.songs.GetByID(ctx, songID)
	if err != nil {
		return nil, err
	}
	if song.UserID != userID {
		return nil, fmt.Errorf("%w: song belongs to another user", domain.ErrUnauthorized)
	}
	return song, nil
}

// submit performs exactly one provider call. For asynchronous providers the
// correlation id and the submitted transition are persisted in one commit;
// for synchronous providers the result lands in slot 1 and the song
// completes in one commit. On error the song's persisted status is left
// untouched; the caller decides what to do with it.
func (s *Service) submit(ctx context.Context, song *domain.Song) error {
	gen, ok := s.generators[song.Provider]
	if !ok {
		return fmt.Errorf("%w: unsupported provider %q", domain.ErrValidation, song.Provider)
	}
	var style *domain.Style
	if song.StyleID != nil {
		loaded, err := s.styles.GetByID(ctx, *song.StyleID)
		if err != nil {
			return fmt.Errorf("style: %w", err)
		}
		style = loaded
	}

	sub, err := gen.Generate(ctx, song, style)
	if err != nil {
		return err
	}
	switch {
	case sub.ResultURL != "":
		song.DownloadURL1 = &sub.ResultURL
		song.Status = domain.SongStatusCompleted
		song.UpdatedAt = time.Now().UTC()
		if err := s.songs.Update(ctx, song); err != nil {
			return fmt.Errorf("store result: %w", err)
		}
	case sub.TaskID != "":
		if err := s.songs.MarkSubmitted(ctx, song.ID, sub.TaskID); err != nil {
			return fmt.Errorf("mark submitted: %w", err)
		}
		song.TaskID = &sub.TaskID
		song.Status = domain.SongStatusSubmitted
	default:
		return fmt.Errorf("provider %q returned neither a task id nor a result", song.Provider)
	}
	s.logger.Info().
		Str("song_id", song.ID).
		Str("provider", song.Provider).
		Str("status", string(song.Status)).
		Msg("song submitted")
	return nil
}
