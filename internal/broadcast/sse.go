package broadcast

import (
	"io"
	"net/http"

	"github.com/gin-contrib/sse"
)

// SSEWriter encodes messages as text/event-stream frames and flushes each one.
type SSEWriter struct {
	w       io.Writer
	flusher http.Flusher
}

func NewSSEWriter(w io.Writer) *SSEWriter {
	f, _ := w.(http.Flusher)
	return &SSEWriter{w: w, flusher: f}
}

// PrepareStream sets the headers every push stream needs.
func PrepareStream(h http.Header) {
	h.Set("Content-Type", sse.ContentType)
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
}

func (s *SSEWriter) WriteMessage(msg Message) error {
	if err := sse.Encode(s.w, sse.Event{Event: msg.Event, Data: string(msg.Data)}); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}
