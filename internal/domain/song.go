package domain

import (
	"strings"
	"time"
)

// SongStatus enumerates song lifecycle states.
type SongStatus string

const (
	SongStatusCreate      SongStatus = "create"
	SongStatusSubmitted   SongStatus = "submitted"
	SongStatusCompleted   SongStatus = "completed"
	SongStatusFailed      SongStatus = "failed"
	SongStatusUnspecified SongStatus = "unspecified"
)

// ValidSongStatus reports whether s is one of the defined lifecycle states.
func ValidSongStatus(s SongStatus) bool {
	switch s {
	case SongStatusCreate, SongStatusSubmitted, SongStatusCompleted, SongStatusFailed, SongStatusUnspecified:
		return true
	}
	return false
}

// VocalGender enumerates the supported vocal selectors.
type VocalGender string

const (
	VocalGenderMale   VocalGender = "male"
	VocalGenderFemale VocalGender = "female"
	VocalGenderOther  VocalGender = "other"
)

// Generation provider names persisted on each song. The provider decides
// both the submission path (asynchronous music vs. synchronous speech) and
// how many result slots a song needs before it counts as completed.
const (
	ProviderSuno   = "suno"
	ProviderSpeech = "speech"
)

// Song encapsulates one generation request and its lifecycle. A song moves
// from create to submitted when the provider acknowledges the request, then
// to completed or failed via the callback reconciler. TaskID is the provider
// correlation identifier; it is nil until a submission succeeds.
type Song struct {
	ID               string
	UserID           string
	Provider         string
	Status           SongStatus
	SpecificTitle    string
	Version          string
	StarRating       int
	SpecificLyrics   string
	PromptToGenerate string
	StyleID          *string
	VocalGender      VocalGender
	DownloadURL1     *string
	Downloaded1      bool
	DownloadURL2     *string
	Downloaded2      bool
	TaskID           *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasLyrics reports whether the song carries explicit generation text. The
// submission adapter selects fully-specified mode when it does and
// prompt-driven mode otherwise.
func (s *Song) HasLyrics() bool {
	return strings.TrimSpace(s.SpecificLyrics) != ""
}

// FilledSlots counts the result slots holding a non-empty URL.
func (s *Song) FilledSlots() int {
	n := 0
	if s.DownloadURL1 != nil && *s.DownloadURL1 != "" {
		n++
	}
	if s.DownloadURL2 != nil && *s.DownloadURL2 != "" {
		n++
	}
	return n
}

// SongFilter narrows List queries. Zero values mean "no constraint".
type SongFilter struct {
	UserID      string
	AllUsers    bool
	Status      SongStatus
	StyleID     string
	VocalGender VocalGender
	Search      string
}

// SongStats aggregates per-status counts. Completed only counts rows holding
// at least one result URL so a stale completed label with empty slots does
// not inflate the number.
type SongStats struct {
	Total       int64 `json:"total"`
	Create      int64 `json:"create"`
	Submitted   int64 `json:"submitted"`
	Completed   int64 `json:"completed"`
	Failed      int64 `json:"failed"`
	Unspecified int64 `json:"unspecified"`
}
