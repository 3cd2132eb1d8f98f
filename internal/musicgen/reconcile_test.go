package musicgen

import (
	"context"
	"errors"
	"testing"

	"github.com/scottrhay/AIAMusic/internal/domain"
)

func str(s string) *string { return &s }

func submittedSong(taskID string) *domain.Song {
	return &domain.Song{
		ID:       "song-1",
		UserID:   "user-1",
		Provider: domain.ProviderSuno,
		Status:   domain.SongStatusSubmitted,
		TaskID:   str(taskID),
	}
}

func newTestReconciler(repo *fakeSongRepo) *Reconciler {
	generators := map[string]Generator{
		domain.ProviderSuno:   &fakeGenerator{minSlots: 2},
		domain.ProviderSpeech: &fakeGenerator{minSlots: 1, sync: true},
	}
	return NewReconciler(repo, generators, testLogger())
}

func TestApplyCompletesWithBothRenderings(t *testing.T) {
	repo := newFakeSongRepo(submittedSong("task-1"))
	rec := newTestReconciler(repo)

	n := &Notification{
		TaskID: "task-1",
		Status: "completed",
		Results: []Result{
			{URL: "https://cdn.test/a.mp3"},
			{URL: "https://cdn.test/b.mp3"},
		},
	}
	outcome, song, err := rec.Apply(context.Background(), n)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if outcome != OutcomeUpdated {
		t.Fatalf("outcome = %s, want updated", outcome)
	}
	if song.Status != domain.SongStatusCompleted {
		t.Fatalf("status = %s, want completed", song.Status)
	}
	if *song.DownloadURL1 != "https://cdn.test/a.mp3" || *song.DownloadURL2 != "https://cdn.test/b.mp3" {
		t.Fatalf("slots = %v / %v", song.DownloadURL1, song.DownloadURL2)
	}
}

func TestApplyPartialDeliveryThenCompletion(t *testing.T) {
	repo := newFakeSongRepo(submittedSong("task-1"))
	rec := newTestReconciler(repo)

	first := &Notification{TaskID: "task-1", Status: "completed", Results: []Result{{URL: "https://cdn.test/a.mp3"}}}
	outcome, song, err := rec.Apply(context.Background(), first)
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if outcome != OutcomeUpdated {
		t.Fatalf("first outcome = %s", outcome)
	}
	if song.Status != domain.SongStatusSubmitted {
		t.Fatalf("status after one slot = %s, want submitted", song.Status)
	}
	if song.FilledSlots() != 1 {
		t.Fatalf("filled slots = %d, want 1", song.FilledSlots())
	}

	second := &Notification{TaskID: "task-1", Status: "completed", Results: []Result{{URL: "https://cdn.test/b.mp3"}}}
	_, song, err = rec.Apply(context.Background(), second)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if song.Status != domain.SongStatusCompleted {
		t.Fatalf("status after both slots = %s, want completed", song.Status)
	}
	if *song.DownloadURL1 != "https://cdn.test/a.mp3" || *song.DownloadURL2 != "https://cdn.test/b.mp3" {
		t.Fatalf("slots = %v / %v", song.DownloadURL1, song.DownloadURL2)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	repo := newFakeSongRepo(submittedSong("task-1"))
	rec := newTestReconciler(repo)

	n := &Notification{
		TaskID: "task-1",
		Status: "completed",
		Results: []Result{
			{URL: "https://cdn.test/a.mp3"},
			{URL: "https://cdn.test/b.mp3"},
		},
	}
	if _, _, err := rec.Apply(context.Background(), n); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	after, _ := repo.GetByID(context.Background(), "song-1")

	outcome, _, err := rec.Apply(context.Background(), n)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if outcome != OutcomeNoOp {
		t.Fatalf("replay outcome = %s, want no-op", outcome)
	}
	replayed, _ := repo.GetByID(context.Background(), "song-1")
	if replayed.Status != after.Status ||
		*replayed.DownloadURL1 != *after.DownloadURL1 ||
		*replayed.DownloadURL2 != *after.DownloadURL2 {
		t.Fatalf("replay changed state: %#v vs %#v", replayed, after)
	}
}

func TestApplySuccessWithoutURLsLeavesSongUnchanged(t *testing.T) {
	repo := newFakeSongRepo(submittedSong("task-1"))
	rec := newTestReconciler(repo)

	n := &Notification{TaskID: "task-1", Status: "completed"}
	outcome, song, err := rec.Apply(context.Background(), n)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if outcome != OutcomeNoOp {
		t.Fatalf("outcome = %s, want no-op", outcome)
	}
	if song.Status != domain.SongStatusSubmitted {
		t.Fatalf("status = %s, want submitted", song.Status)
	}
}

func TestApplyFailureStatus(t *testing.T) {
	repo := newFakeSongRepo(submittedSong("task-1"))
	rec := newTestReconciler(repo)

	n := &Notification{TaskID: "task-1", Status: "failed", Message: "generation error"}
	outcome, song, err := rec.Apply(context.Background(), n)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if outcome != OutcomeMarkedFailed {
		t.Fatalf("outcome = %s, want marked-failed", outcome)
	}
	if song.Status != domain.SongStatusFailed {
		t.Fatalf("status = %s, want failed", song.Status)
	}
}

func TestApplyUnknownTaskID(t *testing.T) {
	repo := newFakeSongRepo(submittedSong("task-1"))
	rec := newTestReconciler(repo)

	n := &Notification{TaskID: "does-not-exist", Status: "completed", Results: []Result{{URL: "u"}}}
	_, _, err := rec.Apply(context.Background(), n)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	song, _ := repo.GetByID(context.Background(), "song-1")
	if song.Status != domain.SongStatusSubmitted || song.FilledSlots() != 0 {
		t.Fatalf("unrelated song mutated: %#v", song)
	}
}

func TestApplySpeechProviderCompletesOnOneSlot(t *testing.T) {
	song := submittedSong("task-s")
	song.Provider = domain.ProviderSpeech
	repo := newFakeSongRepo(song)
	rec := newTestReconciler(repo)

	n := &Notification{TaskID: "task-s", Status: "completed", Results: []Result{{URL: "https://cdn.test/clip.mp3"}}}
	_, updated, err := rec.Apply(context.Background(), n)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if updated.Status != domain.SongStatusCompleted {
		t.Fatalf("status = %s, want completed on a single slot", updated.Status)
	}
}

func TestApplyIgnoresTerminalSongs(t *testing.T) {
	song := submittedSong("task-1")
	song.Status = domain.SongStatusCompleted
	song.DownloadURL1 = str("https://cdn.test/a.mp3")
	song.DownloadURL2 = str("https://cdn.test/b.mp3")
	repo := newFakeSongRepo(song)
	rec := newTestReconciler(repo)

	n := &Notification{TaskID: "task-1", Status: "failed", Message: "late failure"}
	outcome, updated, err := rec.Apply(context.Background(), n)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if outcome != OutcomeNoOp {
		t.Fatalf("outcome = %s, want no-op", outcome)
	}
	if updated.Status != domain.SongStatusCompleted {
		t.Fatalf("terminal song mutated to %s", updated.Status)
	}
}
