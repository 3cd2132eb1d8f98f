package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/scottrhay/AIAMusic/internal/domain"
	"github.com/scottrhay/AIAMusic/internal/musicgen"
)

type createSongRequest struct {
	Provider         string  `json:"provider"`
	Status           string  `json:"status"`
	SpecificTitle    string  `json:"specific_title"`
	Version          string  `json:"version"`
	SpecificLyrics   string  `json:"specific_lyrics"`
	PromptToGenerate string  `json:"prompt_to_generate"`
	StyleID          *string `json:"style_id"`
	VocalGender      string  `json:"vocal_gender"`
}

type updateSongRequest struct {
	SpecificTitle    *string `json:"specific_title"`
	SpecificLyrics   *string `json:"specific_lyrics"`
	PromptToGenerate *string `json:"prompt_to_generate"`
	StyleID          *string `json:"style_id"`
	VocalGender      *string `json:"vocal_gender"`
	Status           *string `json:"status"`
	StarRating       *int    `json:"star_rating"`
	Downloaded1      *bool   `json:"downloaded_1"`
	Downloaded2      *bool   `json:"downloaded_2"`
}

type songResponse struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Provider         string    `json:"provider"`
	Status           string    `json:"status"`
	SpecificTitle    string    `json:"specific_title"`
	Version          string    `json:"version"`
	StarRating       int       `json:"star_rating"`
	SpecificLyrics   string    `json:"specific_lyrics"`
	PromptToGenerate string    `json:"prompt_to_generate"`
	StyleID          *string   `json:"style_id"`
	VocalGender      string    `json:"vocal_gender"`
	DownloadURL1     *string   `json:"download_url_1"`
	Downloaded1      bool      `json:"downloaded_1"`
	DownloadURL2     *string   `json:"download_url_2"`
	Downloaded2      bool      `json:"downloaded_2"`
	TaskID           *string   `json:"task_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toSongResponse(s *domain.Song) songResponse {
	return songResponse{
		ID:               s.ID,
		UserID:           s.UserID,
		Provider:         s.Provider,
		Status:           string(s.Status),
		SpecificTitle:    s.SpecificTitle,
		Version:          s.Version,
		StarRating:       s.StarRating,
		SpecificLyrics:   s.SpecificLyrics,
		PromptToGenerate: s.PromptToGenerate,
		StyleID:          s.StyleID,
		VocalGender:      string(s.VocalGender),
		DownloadURL1:     s.DownloadURL1,
		Downloaded1:      s.Downloaded1,
		DownloadURL2:     s.DownloadURL2,
		Downloaded2:      s.Downloaded2,
		TaskID:           s.TaskID,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func (a *App) CreateSong(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req createSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	song, err := a.Songs.Create(r.Context(), userID, musicgen.CreateInput{
		Provider:         req.Provider,
		Status:           domain.SongStatus(req.Status),
		SpecificTitle:    req.SpecificTitle,
		Version:          req.Version,
		SpecificLyrics:   req.SpecificLyrics,
		PromptToGenerate: req.PromptToGenerate,
		StyleID:          req.StyleID,
		VocalGender:      domain.VocalGender(req.VocalGender),
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toSongResponse(song))
}

func (a *App) GetSong(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	song, err := a.Songs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	if song.UserID != userID && !a.isAdmin(r) {
		a.error(w, http.StatusForbidden, "forbidden", "song belongs to another user")
		return
	}
	a.json(w, http.StatusOK, toSongResponse(song))
}

func (a *App) ListSongs(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	q := r.URL.Query()
	filter := domain.SongFilter{
		Status:      domain.SongStatus(q.Get("status")),
		StyleID:     q.Get("style_id"),
		VocalGender: domain.VocalGender(q.Get("vocal_gender")),
		Search:      q.Get("search"),
		AllUsers:    q.Get("all_users") == "true" && a.isAdmin(r),
	}
	if filter.Status != "" && !domain.ValidSongStatus(filter.Status) {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown status filter")
		return
	}
	songs, err := a.Songs.List(r.Context(), userID, filter)
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]songResponse, 0, len(songs))
	for i := range songs {
		items = append(items, toSongResponse(&songs[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (a *App) UpdateSong(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req updateSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	in := musicgen.UpdateInput{
		SpecificTitle:    req.SpecificTitle,
		SpecificLyrics:   req.SpecificLyrics,
		PromptToGenerate: req.PromptToGenerate,
		StyleID:          req.StyleID,
		StarRating:       req.StarRating,
		Downloaded1:      req.Downloaded1,
		Downloaded2:      req.Downloaded2,
	}
	if req.VocalGender != nil {
		g := domain.VocalGender(*req.VocalGender)
		in.VocalGender = &g
	}
	if req.Status != nil {
		s := domain.SongStatus(*req.Status)
		in.Status = &s
	}
	song, err := a.Songs.Update(r.Context(), userID, chi.URLParam(r, "id"), in)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toSongResponse(song))
}

func (a *App) DeleteSong(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if err := a.Songs.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"result": "deleted"})
}

func (a *App) RecreateSong(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	song, err := a.Songs.Recreate(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toSongResponse(song))
}

func (a *App) SongStats(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	allUsers := r.URL.Query().Get("all_users") == "true" && a.isAdmin(r)
	stats, err := a.Songs.Stats(r.Context(), userID, allUsers)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, stats)
}
