package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"persona-quiz-service/internal/app"
	"persona-quiz-service/internal/domain"
)

// Handler exposes the verdict use cases over a JSON API. Authentication is
// handled upstream; the handler trusts the X-User-ID header set by the
// auth boundary.
type Handler struct {
	service *app.VerdictService
}

func NewHandler(service *app.VerdictService) *Handler {
	return &Handler{service: service}
}

// Routes mounts the API endpoints on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/api/questions", h.listQuestions)
	r.Post("/api/submissions", h.submit)
	r.Get("/api/results/{token}", h.fetchResult)
}

type submitRequest struct {
	Answers []domain.Answer `json:"answers"`
}

type submitResponse struct {
	Token           string                `json:"token"`
	WinningCategory string                `json:"winningCategory"`
	Breakdown       domain.ScoreBreakdown `json:"breakdown"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing user identity"})
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.service.Submit(r.Context(), userID, req.Answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, submitResponse{
		Token:           result.Token,
		WinningCategory: result.WinningCategory,
		Breakdown:       result.Breakdown,
	})
}

func (h *Handler) fetchResult(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing user identity"})
		return
	}

	verdict, err := h.service.Fetch(r.Context(), chi.URLParam(r, "token"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}

func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.Questions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

// writeError maps domain errors onto the HTTP status taxonomy: input errors
// are 400, policy violations 403, missing results 404, infrastructure 503.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusServiceUnavailable
	switch {
	case errors.Is(err, domain.ErrEmptySubmission),
		errors.Is(err, domain.ErrDuplicateAnswer),
		errors.Is(err, domain.ErrUnknownQuestion),
		errors.Is(err, domain.ErrUnknownOption):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyCompleted),
		errors.Is(err, domain.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrResultNotFound):
		status = http.StatusNotFound
	}

	msg := err.Error()
	if status == http.StatusServiceUnavailable {
		// Do not leak infrastructure details to clients.
		msg = "temporarily unavailable, please retry"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
