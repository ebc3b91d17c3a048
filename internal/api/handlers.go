// Package api exposes HTTP handlers for the gather service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"example.com/gather/internal/auth"
	"example.com/gather/internal/domain"
	"example.com/gather/internal/engine"
	"example.com/gather/internal/observability"
)

// Handler coordinates HTTP requests with the engines.
type Handler struct {
	creation      *engine.CreationEngine
	participation *engine.ParticipationEngine
	deletion      *engine.DeletionEngine
	activities    domain.ActivityStore
	locks         *keyedLocks
}

// NewHandler builds a Handler.
func NewHandler(creation *engine.CreationEngine, participation *engine.ParticipationEngine, deletion *engine.DeletionEngine, activities domain.ActivityStore) *Handler {
	return &Handler{
		creation:      creation,
		participation: participation,
		deletion:      deletion,
		activities:    activities,
		locks:         newKeyedLocks(),
	}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/activities", h.activitiesRoot)
	mux.HandleFunc("/v1/activities/", h.activityByID)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) activitiesRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createActivity(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) activityByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/activities/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing activity id")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.getActivity(w, r, id)
	case action == "" && r.Method == http.MethodDelete:
		h.deleteActivity(w, r, id)
	case action == "join" && r.Method == http.MethodPost:
		h.changeParticipation(w, r, id, h.participation.Join, "join")
	case action == "quit" && r.Method == http.MethodPost:
		h.changeParticipation(w, r, id, h.participation.Quit, "quit")
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	var req CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	draft := domain.Draft{
		Title:           req.Title,
		Kind:            domain.Kind(req.Kind),
		ScheduledAt:     req.ScheduledAt,
		MaxParticipants: req.MaxParticipants,
		Visibility:      domain.Visibility(req.Visibility),
	}
	if len(req.Occurrences) > 0 {
		draft.ScheduledAt = req.Occurrences[0]
	}

	var created *domain.Activity
	var err error
	if draft.Kind == domain.KindSerie {
		created, err = h.creation.CreateSerie(r.Context(), draft, claims.Subject, req.GroupID, req.Occurrences)
	} else {
		created, err = h.creation.CreateEvent(r.Context(), draft, claims.Subject, req.GroupID)
	}
	observability.RecordOperation("create", outcomeLabel(err))
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toActivityView(*created))
}

func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeActivitiesRead) && !claims.HasScope(auth.ScopeActivitiesWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope activities:read required")
		return
	}

	activity, err := h.activities.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "activity not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toActivityView(*activity))
}

func (h *Handler) changeParticipation(w http.ResponseWriter, r *http.Request, id string, op func(ctx context.Context, activityID, userID string) error, name string) {
	claims, ok := requireScope(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	h.locks.lock(id)
	defer h.locks.unlock(id)

	err := op(r.Context(), id, claims.Subject)
	observability.RecordOperation(name, outcomeLabel(err))
	if err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteActivity(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	h.locks.lock(id)
	defer h.locks.unlock(id)

	activity, err := h.activities.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "activity not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if activity.OwnerID != claims.Subject {
		writeError(w, http.StatusForbidden, "forbidden", "only the owner can delete an activity")
		return
	}

	err = h.deletion.Delete(r.Context(), id)
	observability.RecordOperation("delete", outcomeLabel(err))
	if err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func requireScope(w http.ResponseWriter, r *http.Request, scope string) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	if !claims.HasScope(scope) {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+scope+" required")
		return nil, false
	}
	return claims, true
}

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	if failure, ok := engine.AsFailure(err); ok {
		return string(failure.Kind)
	}
	return "error"
}

func writeFailure(w http.ResponseWriter, err error) {
	failure, ok := engine.AsFailure(err)
	if !ok {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	switch failure.Kind {
	case engine.FailureValidation:
		writeError(w, http.StatusUnprocessableEntity, "validation_failed", failure.Reason)
	case engine.FailureNotFound:
		writeError(w, http.StatusNotFound, "not_found", failure.Reason)
	default:
		writeError(w, http.StatusInternalServerError, "server_error", failure.Reason)
	}
}

// CreateActivityRequest is the payload for POST /v1/activities.
type CreateActivityRequest struct {
	Title           string      `json:"title"`
	Kind            string      `json:"kind"`
	ScheduledAt     time.Time   `json:"scheduled_at"`
	MaxParticipants int         `json:"max_participants"`
	Visibility      string      `json:"visibility"`
	GroupID         string      `json:"group_id,omitempty"`
	Occurrences     []time.Time `json:"occurrences,omitempty"`
}

// ActivityView exposes full details about an activity.
type ActivityView struct {
	ActivityID      string      `json:"activity_id"`
	Kind            string      `json:"kind"`
	OwnerID         string      `json:"owner_id"`
	Title           string      `json:"title"`
	ScheduledAt     time.Time   `json:"scheduled_at"`
	MaxParticipants int         `json:"max_participants"`
	Participants    []string    `json:"participants"`
	GroupID         string      `json:"group_id,omitempty"`
	Visibility      string      `json:"visibility"`
	EventIDs        []string    `json:"event_ids,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func toActivityView(activity domain.Activity) ActivityView {
	return ActivityView{
		ActivityID:      activity.ID,
		Kind:            string(activity.Kind),
		OwnerID:         activity.OwnerID,
		Title:           activity.Title,
		ScheduledAt:     activity.ScheduledAt,
		MaxParticipants: activity.MaxParticipants,
		Participants:    activity.Participants,
		GroupID:         activity.GroupID,
		Visibility:      string(activity.Visibility),
		EventIDs:        activity.EventIDs,
		CreatedAt:       activity.CreatedAt,
		UpdatedAt:       activity.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
