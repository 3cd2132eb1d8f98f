package musicgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/scottrhay/AIAMusic/internal/domain"
	"github.com/scottrhay/AIAMusic/internal/providers/suno"
)

// Submission is the outcome of one provider call. Asynchronous providers
// return a correlation id and deliver audio later through the callback
// webhook; synchronous providers return the stored result URL directly.
type Submission struct {
	TaskID    string
	ResultURL string
}

// Generator is the capability a provider integration exposes to the song
// lifecycle. MinCompletionSlots is the per-provider completion predicate:
// how many result slots must be filled before a song counts as completed.
type Generator interface {
	Generate(ctx context.Context, song *domain.Song, style *domain.Style) (Submission, error)
	MinCompletionSlots() int
	Synchronous() bool
}

type sunoSubmitter interface {
	Submit(ctx context.Context, req suno.SubmitRequest) (string, error)
}

// SunoGenerator adapts the Suno client to the Generator capability. Suno
// returns two alternate renderings per request, so completion requires both
// slots.
type SunoGenerator struct {
	client sunoSubmitter
}

// NewSunoGenerator wraps a Suno client.
func NewSunoGenerator(client sunoSubmitter) *SunoGenerator {
	return &SunoGenerator{client: client}
}

// Generate submits the song for asynchronous generation.
func (g *SunoGenerator) Generate(ctx context.Context, song *domain.Song, style *domain.Style) (Submission, error) {
	req := suno.SubmitRequest{
		Title:       song.SpecificTitle,
		Lyrics:      song.SpecificLyrics,
		Prompt:      song.PromptToGenerate,
		VocalGender: string(song.VocalGender),
	}
	if style != nil {
		req.StylePrompt = style.StylePrompt
	}
	taskID, err := g.client.Submit(ctx, req)
	if err != nil {
		return Submission{}, err
	}
	return Submission{TaskID: taskID}, nil
}

func (g *SunoGenerator) MinCompletionSlots() int { return 2 }

func (g *SunoGenerator) Synchronous() bool { return false }

type speechSynthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

type audioStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// SpeechGenerator adapts the synchronous text-to-speech client: it
// synthesizes the clip inline, persists it, and hands the public URL back
// so the lifecycle can complete the song in the same operation.
type SpeechGenerator struct {
	client  speechSynthesizer
	store   audioStore
	baseURL string
}

// NewSpeechGenerator wires the speech client with the audio store and the
// public base URL served in front of it.
func NewSpeechGenerator(client speechSynthesizer, store audioStore, baseURL string) *SpeechGenerator {
	return &SpeechGenerator{client: client, store: store, baseURL: strings.TrimRight(baseURL, "/")}
}

// speechVoices maps the song's vocal selector to a synthesis voice.
var speechVoices = map[domain.VocalGender]string{
	domain.VocalGenderMale:   "en-US-AndrewMultilingualNeural",
	domain.VocalGenderFemale: "en-US-AvaMultilingualNeural",
}

// Generate synthesizes the song's text and returns the stored result URL.
func (g *SpeechGenerator) Generate(ctx context.Context, song *domain.Song, _ *domain.Style) (Submission, error) {
	text := song.SpecificLyrics
	if strings.TrimSpace(text) == "" {
		text = song.PromptToGenerate
	}
	voice := speechVoices[song.VocalGender]
	audio, err := g.client.Synthesize(ctx, text, voice)
	if err != nil {
		return Submission{}, err
	}
	key, err := g.store.Write(ctx, fmt.Sprintf("songs/%s.mp3", song.ID), audio)
	if err != nil {
		return Submission{}, fmt.Errorf("store synthesized audio: %w", err)
	}
	return Submission{ResultURL: g.baseURL + "/" + key}, nil
}

func (g *SpeechGenerator) MinCompletionSlots() int { return 1 }

func (g *SpeechGenerator) Synchronous() bool { return true }
