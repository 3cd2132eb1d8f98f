// Package handlers implements the HTTP surface of the service. Handlers
// stay thin: decode, delegate to the musicgen service or a repository, then
// translate domain errors to status codes.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/scottrhay/AIAMusic/internal/domain"
	"github.com/scottrhay/AIAMusic/internal/infra"
	"github.com/scottrhay/AIAMusic/internal/middleware"
	"github.com/scottrhay/AIAMusic/internal/musicgen"
	"github.com/scottrhay/AIAMusic/internal/providers"
	"github.com/scottrhay/AIAMusic/internal/providers/speech"
)

type App struct {
	Songs      *musicgen.Service
	Styles     domain.StyleRepository
	Users      domain.UserRepository
	Reconciler *musicgen.Reconciler
	Speech     *speech.Client
	Config     *infra.Config
	Logger     *infra.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error":   errCode,
		"message": message,
	})
}

// domainError maps sentinel errors to HTTP statuses. Provider failures come
// back as 502 so callers can distinguish upstream trouble from our own bugs;
// a missing credential is our misconfiguration, not theirs.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		a.error(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, providers.ErrUnconfigured):
		a.error(w, http.StatusInternalServerError, "provider_unconfigured", err.Error())
	case errors.Is(err, providers.ErrAuthFailed),
		errors.Is(err, providers.ErrQuotaExceeded),
		errors.Is(err, providers.ErrRateLimited),
		errors.Is(err, providers.ErrUnavailable),
		errors.Is(err, providers.ErrTimeout),
		errors.Is(err, providers.ErrBadResponse),
		errors.Is(err, providers.ErrRejected):
		a.error(w, http.StatusBadGateway, "provider_error", err.Error())
	default:
		if a.Logger != nil {
			a.Logger.Error().Err(err).Msg("unhandled error")
		}
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

func (a *App) isAdmin(r *http.Request) bool {
	return middleware.IsAdminFromContext(r.Context())
}
