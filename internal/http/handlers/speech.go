package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/scottrhay/AIAMusic/internal/providers"
	"github.com/scottrhay/AIAMusic/internal/providers/speech"
)

type synthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// Synthesize runs text-to-speech inline and streams the MP3 back. Unlike
// music generation there is no job to poll: the clip is the response.
func (a *App) Synthesize(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req synthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "text required")
		return
	}
	audio, err := a.Speech.Synthesize(r.Context(), req.Text, req.Voice)
	if err != nil {
		// A rejected synthesis is the caller's input problem, not upstream's.
		if errors.Is(err, providers.ErrRejected) {
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		a.domainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

func (a *App) ListVoices(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"voices":  speech.Voices(),
		"default": speech.DefaultVoice,
	})
}
