package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ideadrop.org/internal/audit"
	"ideadrop.org/internal/auth"
	"ideadrop.org/internal/idea"
)

type ideaRequest struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type ideaPayload struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// handleIdeas serves the /api/ideas collection: public listing and
// authenticated creation.
func (a *API) handleIdeas(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listIdeas(w, r)
	case http.MethodPost:
		r, ok := a.requireUser(w, r)
		if !ok {
			return
		}
		a.createIdea(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleIdeaByID serves /api/ideas/{id}: public reads, owner-only mutations.
func (a *API) handleIdeaByID(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/ideas/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.getIdea(w, r, id)
	case http.MethodPut:
		r, ok := a.requireUser(w, r)
		if !ok {
			return
		}
		a.updateIdea(w, r, id)
	case http.MethodDelete:
		r, ok := a.requireUser(w, r)
		if !ok {
			return
		}
		a.deleteIdea(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) listIdeas(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("_limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, r, http.StatusBadRequest, "invalid _limit")
			return
		}
		limit = parsed
	}

	ideas, err := a.ideas.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "listing ideas failed")
		return
	}

	payload := make([]ideaPayload, 0, len(ideas))
	for _, i := range ideas {
		payload = append(payload, ideaBody(i))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (a *API) getIdea(w http.ResponseWriter, r *http.Request, id string) {
	i, err := a.ideas.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, idea.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Idea not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "loading idea failed")
		return
	}
	writeJSON(w, http.StatusOK, ideaBody(i))
}

func (a *API) createIdea(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req ideaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	created, err := a.ideas.Create(r.Context(), userID, idea.Input{
		Title:       req.Title,
		Summary:     req.Summary,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		if errors.Is(err, idea.ErrInvalidInput) {
			writeError(w, r, http.StatusBadRequest, "Title, summary and description are required")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "creating idea failed")
		return
	}

	_ = audit.LogEvent(r.Context(), "idea.create", map[string]any{"idea_id": created.ID})
	writeJSON(w, http.StatusCreated, ideaBody(created))
}

func (a *API) updateIdea(w http.ResponseWriter, r *http.Request, id string) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req ideaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := a.ideas.Update(r.Context(), userID, id, idea.Input{
		Title:       req.Title,
		Summary:     req.Summary,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		a.writeIdeaError(w, r, err, "updating idea failed")
		return
	}

	_ = audit.LogEvent(r.Context(), "idea.update", map[string]any{"idea_id": updated.ID})
	writeJSON(w, http.StatusOK, ideaBody(updated))
}

func (a *API) deleteIdea(w http.ResponseWriter, r *http.Request, id string) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := a.ideas.Delete(r.Context(), userID, id); err != nil {
		a.writeIdeaError(w, r, err, "deleting idea failed")
		return
	}

	_ = audit.LogEvent(r.Context(), "idea.delete", map[string]any{"idea_id": id})
	writeJSON(w, http.StatusOK, messageResponse{Message: "Idea deleted"})
}

func (a *API) writeIdeaError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, idea.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, "Title, summary and description are required")
	case errors.Is(err, idea.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Idea not found")
	case errors.Is(err, idea.ErrForbidden):
		writeError(w, r, http.StatusForbidden, "Not authorized")
	default:
		writeError(w, r, http.StatusInternalServerError, fallback)
	}
}

func ideaBody(i *idea.Idea) ideaPayload {
	tags := i.Tags
	if tags == nil {
		tags = []string{}
	}
	return ideaPayload{
		ID:          i.ID,
		Title:       i.Title,
		Summary:     i.Summary,
		Description: i.Description,
		Tags:        tags,
		UserID:      i.UserID,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
