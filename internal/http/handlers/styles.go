package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/scottrhay/AIAMusic/internal/domain"
)

type styleRequest struct {
	Name        string `json:"name"`
	StylePrompt string `json:"style_prompt"`
}

type styleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	StylePrompt string    `json:"style_prompt"`
	CreatedBy   *string   `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toStyleResponse(s *domain.Style) styleResponse {
	return styleResponse{
		ID:          s.ID,
		Name:        s.Name,
		StylePrompt: s.StylePrompt,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (a *App) CreateStyle(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req styleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name required")
		return
	}
	style := &domain.Style{
		ID:          uuid.NewString(),
		Name:        req.Name,
		StylePrompt: req.StylePrompt,
		CreatedBy:   &userID,
	}
	if err := a.Styles.Create(r.Context(), style); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toStyleResponse(style))
}

func (a *App) ListStyles(w http.ResponseWriter, r *http.Request) {
	styles, err := a.Styles.List(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]styleResponse, 0, len(styles))
	for i := range styles {
		items = append(items, toStyleResponse(&styles[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (a *App) GetStyle(w http.ResponseWriter, r *http.Request) {
	style, err := a.Styles.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toStyleResponse(style))
}

func (a *App) UpdateStyle(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	style, err := a.Styles.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	if !a.mayMutateStyle(r, style) {
		a.error(w, http.StatusForbidden, "forbidden", "style belongs to another user")
		return
	}
	var req styleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		style.Name = name
	}
	if req.StylePrompt != "" {
		style.StylePrompt = req.StylePrompt
	}
	if err := a.Styles.Update(r.Context(), style); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toStyleResponse(style))
}

func (a *App) DeleteStyle(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	styleID := chi.URLParam(r, "id")
	style, err := a.Styles.GetByID(r.Context(), styleID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	if !a.mayMutateStyle(r, style) {
		a.error(w, http.StatusForbidden, "forbidden", "style belongs to another user")
		return
	}
	inUse, err := a.Styles.CountSongs(r.Context(), styleID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	if inUse > 0 {
		a.error(w, http.StatusConflict, "conflict", "style is referenced by existing songs")
		return
	}
	if err := a.Styles.Delete(r.Context(), styleID); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"result": "deleted"})
}

// mayMutateStyle allows the creator and admins. Styles without a recorded
// creator predate ownership tracking and stay admin-only.
func (a *App) mayMutateStyle(r *http.Request, style *domain.Style) bool {
	if a.isAdmin(r) {
		return true
	}
	return style.CreatedBy != nil && *style.CreatedBy == a.currentUserID(r)
}
