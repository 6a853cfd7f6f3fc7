package chi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

// QueryStream handles POST /query/stream. The answer is written as
// newline-delimited JSON, one event per line, flushed as it is produced.
// Once the body is validated, failures arrive as an "error" line on a 200 response.
func (s *Server) QueryStream(w http.ResponseWriter, r *http.Request) {
	req, filters, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	flusher, _ := w.(http.Flusher)

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	log := s.requestLogger(r)
	enc := json.NewEncoder(w)
	for ev := range s.answers.Stream(r.Context(), req.Query, filters, queryOptions(req.Options)) {
		if ev.Type == domain.EventError {
			log.Warn("answer stream failed", zap.Error(ev.Err))
		}
		if err := enc.Encode(toStreamLine(ev)); err != nil {
			log.Debug("client went away", zap.Error(err))
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

func toStreamLine(ev domain.Event) streamLine {
	switch ev.Type {
	case domain.EventSources:
		sources := ev.Sources
		if sources == nil {
			sources = []domain.Source{}
		}
		return streamLine{Type: ev.Type, Data: sources}
	case domain.EventContent:
		return streamLine{Type: ev.Type, Data: ev.Content}
	case domain.EventError:
		return streamLine{Type: ev.Type, Data: safeDomainMessage(ev.Err)}
	default:
		return streamLine{Type: ev.Type}
	}
}
