// Package httpapi serves the board and the assistant over JSON and
// server-sent events.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/linimasa/internal/chat"
	"github.com/alexanderramin/linimasa/internal/dashboard"
	"github.com/alexanderramin/linimasa/internal/domain"
	"github.com/alexanderramin/linimasa/internal/llm"
	"github.com/alexanderramin/linimasa/internal/registry"
	"github.com/alexanderramin/linimasa/internal/stats"
	"github.com/charmbracelet/log"
)

// maxRequestBodyBytes limits decoded JSON payload size.
const maxRequestBodyBytes int64 = 1 << 20

// errInvalidRequest marks malformed input that is not a domain violation.
var errInvalidRequest = errors.New("invalid request")

// Handler serves the versioned API subrouter mounted under `/api/v1`.
// Board methods serialize registry access across requests.
type Handler struct {
	board  *dashboard.Board
	chat   *chat.Service
	logger *log.Logger
}

// APIError represents one structured API failure response.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hint    string         `json:"hint,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// ErrorEnvelope wraps one structured API error.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewHandler builds the API over board and an optional chat service.
func NewHandler(board *dashboard.Board, chatSvc *chat.Service, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{board: board, chat: chatSvc, logger: logger.WithPrefix("http")}
}

// ServeHTTP routes one versioned API request to the matching handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := normalizePath(r.URL.Path)
	switch {
	case path == "tasks":
		switch r.Method {
		case http.MethodGet:
			h.handleListTasks(w, r)
		case http.MethodPost:
			h.handleCreateTask(w, r)
		default:
			writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	case strings.HasPrefix(path, "tasks/"):
		id, ok := pathID(path, "tasks/", "")
		if !ok {
			writeEndpointNotFound(w)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.handleGetTask(w, id)
		case http.MethodPatch:
			h.handlePatchTask(w, r, id)
		case http.MethodDelete:
			h.handleDeleteTask(w, id)
		default:
			writeMethodNotAllowed(w, http.MethodGet, http.MethodPatch, http.MethodDelete)
		}
	case path == "timeline":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleTimeline(w, r)
	case path == "stats":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleStats(w, r)
	case path == "deadlines":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleDeadlines(w, r)
	case path == "rooms":
		switch r.Method {
		case http.MethodGet:
			h.handleListRooms(w, r)
		case http.MethodPost:
			h.handleCreateRoom(w, r)
		default:
			writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	case strings.HasSuffix(path, "/messages"):
		id, ok := pathID(path, "rooms/", "/messages")
		if !ok {
			writeEndpointNotFound(w)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.handleListMessages(w, r, id)
		case http.MethodPost:
			h.handleSendMessage(w, r, id)
		default:
			writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	case strings.HasSuffix(path, "/stream"):
		id, ok := pathID(path, "rooms/", "/stream")
		if !ok {
			writeEndpointNotFound(w)
			return
		}
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		h.handleStream(w, r, id)
	default:
		writeEndpointNotFound(w)
	}
}

// handleListTasks serves GET `/tasks?sort=due`.
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	order, err := registry.ParseSortOrder(r.URL.Query().Get("sort"))
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	tasks := h.board.List()

	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": toTaskDTOs(registry.Sorted(tasks, order)),
	})
}

// handleCreateTask serves POST `/tasks`.
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in TaskInput
	if err := decodeJSONBody(r.Context(), w, r, &in); err != nil {
		writeErrorFrom(w, err)
		return
	}
	task, err := in.toTask()
	if err != nil {
		writeErrorFrom(w, err)
		return
	}

	stored, err := h.board.AddTask(task)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskDTO(stored))
}

// handleGetTask serves GET `/tasks/{id}`.
func (h *Handler) handleGetTask(w http.ResponseWriter, id string) {
	task, err := h.board.Get(id)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

// handlePatchTask serves PATCH `/tasks/{id}`.
func (h *Handler) handlePatchTask(w http.ResponseWriter, r *http.Request, id string) {
	var in TaskPatchInput
	if err := decodeJSONBody(r.Context(), w, r, &in); err != nil {
		writeErrorFrom(w, err)
		return
	}
	patch, err := in.toPatch()
	if err != nil {
		writeErrorFrom(w, err)
		return
	}

	updated, err := h.board.UpdateTask(id, patch)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTO(updated))
}

// handleDeleteTask serves DELETE `/tasks/{id}`.
func (h *Handler) handleDeleteTask(w http.ResponseWriter, id string) {
	err := h.board.RemoveTask(id)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTimeline serves GET `/timeline?anchor=&granularity=`. Query values
// default to the board view; the board view itself is not moved.
func (h *Handler) handleTimeline(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	view := h.board.ViewState()
	tasks := h.board.List()

	if v := strings.TrimSpace(q.Get("anchor")); v != "" {
		anchor, err := parseQueryDate("anchor", v)
		if err != nil {
			writeErrorFrom(w, err)
			return
		}
		view.Anchor = anchor
	}
	if v := strings.TrimSpace(q.Get("granularity")); v != "" {
		g, err := domain.ParseGranularity(v)
		if err != nil {
			writeErrorFrom(w, err)
			return
		}
		view.Granularity = g
	}
	writeJSON(w, http.StatusOK, toTimelineDTO(view, tasks))
}

// handleStats serves GET `/stats?today=`.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	today, tasks, err := h.todayAndTasks(r)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsDTO(stats.Compute(tasks, today), today))
}

// handleDeadlines serves GET `/deadlines?today=`.
func (h *Handler) handleDeadlines(w http.ResponseWriter, r *http.Request) {
	today, tasks, err := h.todayAndTasks(r)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"today":     today.Format(domain.DateLayout),
		"deadlines": toDeadlineDTOs(dashboard.Deadlines(tasks, today)),
	})
}

func (h *Handler) todayAndTasks(r *http.Request) (time.Time, []domain.Task, error) {
	today := h.board.Now()
	tasks := h.board.List()

	if v := strings.TrimSpace(r.URL.Query().Get("today")); v != "" {
		d, err := parseQueryDate("today", v)
		if err != nil {
			return time.Time{}, nil, err
		}
		today = d
	}
	return today, tasks, nil
}

// handleListRooms serves GET `/rooms`.
func (h *Handler) handleListRooms(w http.ResponseWriter, r *http.Request) {
	if !h.requireChat(w) {
		return
	}
	rooms, err := h.chat.Store().ListRooms(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	out := make([]RoomDTO, len(rooms))
	for i, room := range rooms {
		out[i] = toRoomDTO(room)
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": out})
}

// handleCreateRoom serves POST `/rooms`. The body is optional.
func (h *Handler) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	if !h.requireChat(w) {
		return
	}
	var in RoomInput
	if err := decodeOptionalJSONBody(r.Context(), w, r, &in); err != nil {
		writeErrorFrom(w, err)
		return
	}
	room, err := h.chat.Store().CreateRoom(r.Context(), in.Title)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoomDTO(room))
}

// handleListMessages serves GET `/rooms/{id}/messages`.
func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request, roomID string) {
	if !h.requireChat(w) {
		return
	}
	msgs, err := h.chat.Store().Messages(r.Context(), roomID)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	out := make([]MessageDTO, len(msgs))
	for i, m := range msgs {
		out[i] = toMessageDTO(m)
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": out})
}

// handleSendMessage serves POST `/rooms/{id}/messages` and answers with the
// complete assistant reply.
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request, roomID string) {
	if !h.requireChat(w) {
		return
	}
	var in SendInput
	if err := decodeJSONBody(r.Context(), w, r, &in); err != nil {
		writeErrorFrom(w, err)
		return
	}
	reply, err := h.chat.SendDraft(r.Context(), roomID, in.toDraft(), nil)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMessageDTO(reply))
}

func (h *Handler) requireChat(w http.ResponseWriter) bool {
	if h.chat != nil {
		return true
	}
	writeJSONError(w, http.StatusServiceUnavailable, APIError{
		Code:    "service_unavailable",
		Message: "chat service is not configured",
	})
	return false
}

func parseQueryDate(field, value string) (time.Time, error) {
	d, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: field, Reason: fmt.Sprintf("invalid date %q (expected YYYY-MM-DD)", value)}
	}
	return d, nil
}

// pathID extracts `{id}` from prefix + id + suffix.
func pathID(path, prefix, suffix string) (string, bool) {
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return "", false
	}
	id := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix))
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// normalizePath canonicalizes one request path for route matching.
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.Trim(path, "/")
	return path
}

// writeErrorFrom maps domain and adapter errors into structured HTTP responses.
func writeErrorFrom(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: "unknown error",
		})
	case errors.As(err, &ve):
		writeJSONError(w, http.StatusBadRequest, APIError{
			Code:    "validation_failed",
			Message: err.Error(),
			Context: map[string]any{"field": ve.Field},
		})
	case errors.Is(err, domain.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, errInvalidRequest):
		writeJSONError(w, http.StatusBadRequest, APIError{
			Code:    "invalid_request",
			Message: err.Error(),
		})
	case errors.Is(err, llm.ErrDisabled):
		writeJSONError(w, http.StatusServiceUnavailable, APIError{
			Code:    "llm_unavailable",
			Message: err.Error(),
			Hint:    "Enable the assistant with [llm] enabled = true or LINIMASA_LLM_ENABLED=true.",
		})
	case errors.Is(err, llm.ErrOllamaUnavailable), errors.Is(err, llm.ErrTimeout), errors.Is(err, llm.ErrRetryExhausted):
		writeJSONError(w, http.StatusServiceUnavailable, APIError{
			Code:    "llm_unavailable",
			Message: err.Error(),
		})
	default:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: err.Error(),
		})
	}
}

func writeEndpointNotFound(w http.ResponseWriter) {
	writeJSONError(w, http.StatusNotFound, APIError{
		Code:    "not_found",
		Message: "endpoint not found",
	})
}

// writeMethodNotAllowed writes a structured 405 response with `Allow` headers.
func writeMethodNotAllowed(w http.ResponseWriter, methods ...string) {
	if len(methods) > 0 {
		w.Header().Set("Allow", strings.Join(methods, ", "))
	}
	writeJSONError(w, http.StatusMethodNotAllowed, APIError{
		Code:    "method_not_allowed",
		Message: "method not allowed",
	})
}

// writeJSONError writes one structured error envelope.
func writeJSONError(w http.ResponseWriter, statusCode int, apiErr APIError) {
	writeJSON(w, statusCode, ErrorEnvelope{Error: apiErr})
}

// writeJSON writes one JSON response envelope.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":{"code":"encode_error","message":"%s"}}`, err.Error()), http.StatusInternalServerError)
	}
}

// decodeJSONBody decodes one required JSON request body with strict shape checks.
func decodeJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode request body: %w", errors.Join(errInvalidRequest, err))
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode request body: trailing content: %w", errInvalidRequest)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	default:
		return nil
	}
}

// decodeOptionalJSONBody decodes one optional JSON body and ignores empty payloads.
func decodeOptionalJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(out)
	if err == nil {
		select {
		case <-ctx.Done():
			return fmt.Errorf("request canceled: %w", ctx.Err())
		default:
			return nil
		}
	}
	if errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("decode request body: %w", errors.Join(errInvalidRequest, err))
}
