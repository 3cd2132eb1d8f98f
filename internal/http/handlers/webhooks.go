package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/scottrhay/AIAMusic/internal/domain"
	"github.com/scottrhay/AIAMusic/internal/musicgen"
)

// maxCallbackBody caps provider callback payloads.
const maxCallbackBody = 1 << 20

// ProviderCallback ingests a generation notification. Payloads we cannot
// make sense of are acknowledged with 200 so the provider stops retrying;
// the only non-2xx answer is 404 for a correlation id we never issued.
func (a *App) ProviderCallback(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackBody))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unreadable body")
		return
	}

	n, err := musicgen.ParseNotification(body)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("callback payload not recognized, acknowledging")
		a.json(w, http.StatusOK, map[string]string{"result": "ignored"})
		return
	}

	outcome, song, err := a.Reconciler.Apply(r.Context(), n)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "no song for task id")
			return
		}
		a.domainError(w, err)
		return
	}

	resp := map[string]any{"result": string(outcome)}
	if song != nil {
		resp["song_id"] = song.ID
		resp["status"] = string(song.Status)
	}
	a.json(w, http.StatusOK, resp)
}

// WebhookTest echoes whatever arrives. It exists so the callback URL can be
// verified end to end without touching real songs.
func (a *App) WebhookTest(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(io.LimitReader(r.Body, maxCallbackBody))
	var payload any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			payload = string(body)
		}
	}
	a.Logger.Info().Int("bytes", len(body)).Msg("webhook test received")
	a.json(w, http.StatusOK, map[string]any{"result": "ok", "received": payload})
}
