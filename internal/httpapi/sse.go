package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SSE event names written by the stream endpoint.
const (
	eventThinking = "thinking"
	eventDone     = "done"
	eventError    = "error"
)

// sseWriter emits numbered server-sent events. Headers are sent with the
// first event so failures before any output can still be plain JSON errors.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	nextID  int
	started bool
}

func newSSEWriter(w http.ResponseWriter) *sseWriter {
	f, _ := w.(http.Flusher)
	return &sseWriter{w: w, flusher: f}
}

func (s *sseWriter) start() {
	if s.started {
		return
	}
	h := s.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	s.w.WriteHeader(http.StatusOK)
	s.started = true
}

// Event writes one frame. Multi-line data is split across data: lines.
func (s *sseWriter) Event(event, data string) error {
	s.start()
	if err := writeEvent(s.w, s.nextID, event, data); err != nil {
		return err
	}
	s.nextID++
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

func writeEvent(w io.Writer, id int, event, data string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "id: %d\nevent: %s\n", id, event)
	for _, line := range strings.Split(data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// handleStream serves POST `/rooms/{id}/stream`: each model chunk becomes a
// thinking event and the stored reply closes the stream as a done event.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request, roomID string) {
	if !h.requireChat(w) {
		return
	}
	var in SendInput
	if err := decodeJSONBody(r.Context(), w, r, &in); err != nil {
		writeErrorFrom(w, err)
		return
	}

	sse := newSSEWriter(w)
	reply, err := h.chat.SendDraft(r.Context(), roomID, in.toDraft(), func(chunk string) error {
		return sse.Event(eventThinking, chunk)
	})
	if err != nil {
		if !sse.started {
			writeErrorFrom(w, err)
			return
		}
		h.logger.Warn("stream aborted", "room", roomID, "err", err)
		_ = sse.Event(eventError, err.Error())
		return
	}

	payload, err := json.Marshal(toMessageDTO(reply))
	if err != nil {
		_ = sse.Event(eventError, err.Error())
		return
	}
	_ = sse.Event(eventDone, string(payload))
}
