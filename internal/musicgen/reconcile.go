package musicgen

import (
	"context"
	"fmt"
	"time"

	"github.com/scottrhay/AIAMusic/internal/domain"
	"github.com/scottrhay/AIAMusic/internal/infra"
)

// Outcome describes what a callback did to a song. It is echoed back to the
// provider in the acknowledgment body.
type Outcome string

const (
	OutcomeUpdated      Outcome = "updated"
	OutcomeNoOp         Outcome = "no-op"
	OutcomeMarkedFailed Outcome = "marked-failed"
)

// Reconciler applies asynchronous provider notifications onto songs. The
// only authentication a callback carries is its embedded task id, so the
// reconciler mutates state only when the payload is confidently
// interpretable, and applying the same payload twice converges on the same
// end state.
type Reconciler struct {
	songs      domain.SongRepository
	generators map[string]Generator
	logger     *infra.Logger
}

// NewReconciler wires the reconciler. The generators map supplies each
// provider's completion predicate.
func NewReconciler(songs domain.SongRepository, generators map[string]Generator, logger *infra.Logger) *Reconciler {
	return &Reconciler{songs: songs, generators: generators, logger: logger}
}

// Apply resolves the notification to a song by task id and applies the
// state transition. It returns domain.ErrNotFound when no song carries the
// reported id; that is the one inconsistency worth signaling back to the
// provider. Every other anomaly is logged and acknowledged as a no-op.
func (r *Reconciler) Apply(ctx context.Context, n *Notification) (Outcome, *domain.Song, error) {
	song, err := r.songs.GetByTaskID(ctx, n.TaskID)
	if err != nil {
		r.logger.Error().Str("task_id", n.TaskID).Msg("callback for unknown task id")
		return OutcomeNoOp, nil, err
	}

	if song.Status != domain.SongStatusSubmitted {
		// Terminal songs and songs reset to create stay untouched; the
		// provider gets its acknowledgment either way.
		r.logger.Info().
			Str("song_id", song.ID).
			Str("status", string(song.Status)).
			Msg("callback ignored, song not awaiting results")
		return OutcomeNoOp, song, nil
	}

	if n.IsFailure() {
		song.Status = domain.SongStatusFailed
		song.UpdatedAt = time.Now().UTC()
		if err := r.songs.Update(ctx, song); err != nil {
			return OutcomeNoOp, song, fmt.Errorf("mark failed: %w", err)
		}
		r.logger.Error().
			Str("song_id", song.ID).
			Str("message", n.Message).
			Msg("generation failed")
		return OutcomeMarkedFailed, song, nil
	}

	urls := deliveredURLs(n)
	if !n.IsSuccess() || len(urls) == 0 {
		// Success without evidence, or a shape we do not recognize. The
		// song stays as it is; completion always requires at least one
		// extractable URL.
		r.logger.Warn().
			Str("song_id", song.ID).
			Str("status", n.Status).
			Str("message", n.Message).
			Int("urls", len(urls)).
			Msg("callback not interpretable, song unchanged")
		return OutcomeNoOp, song, nil
	}

	mergeSlots(song, urls)
	if song.FilledSlots() >= r.minSlots(song.Provider) {
		song.Status = domain.SongStatusCompleted
	}
	song.UpdatedAt = time.Now().UTC()
	if err := r.songs.Update(ctx, song); err != nil {
		return OutcomeNoOp, song, fmt.Errorf("apply callback: %w", err)
	}
	r.logger.Info().
		Str("song_id", song.ID).
		Str("status", string(song.Status)).
		Int("slots", song.FilledSlots()).
		Msg("callback applied")
	return OutcomeUpdated, song, nil
}

func (r *Reconciler) minSlots(provider string) int {
	if gen, ok := r.generators[provider]; ok {
		return gen.MinCompletionSlots()
	}
	// Unknown providers fall back to the dual-rendering contract.
	return 2
}

func deliveredURLs(n *Notification) []string {
	var urls []string
	for _, result := range n.Results {
		if result.URL != "" {
			urls = append(urls, result.URL)
		}
	}
	return urls
}

// mergeSlots places incoming URLs into the song's result slots. A URL the
// song already holds is skipped, so replays and overlapping partial
// deliveries converge instead of shuffling slots around.
func mergeSlots(song *domain.Song, urls []string) {
	for _, url := range urls {
		if slotHolds(song.DownloadURL1, url) || slotHolds(song.DownloadURL2, url) {
			continue
		}
		u := url
		switch {
		case song.DownloadURL1 == nil || *song.DownloadURL1 == "":
			song.DownloadURL1 = &u
		case song.DownloadURL2 == nil || *song.DownloadURL2 == "":
			song.DownloadURL2 = &u
		}
	}
}

func slotHolds(slot *string, url string) bool {
	return slot != nil && *slot == url
}
