package geoknow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Ask sends a question and waits for the complete answer.
func (c *Client) Ask(ctx context.Context, q *Query) (_ *AskResult, err error) {
	defer func(start time.Time) { c.obs.observe("ask", start, err) }(time.Now())

	if err := q.validate(); err != nil {
		return nil, err
	}

	var res AskResult
	hdr, err := c.doJSON(ctx, http.MethodPost, apiPrefix+"/query", nil, q.body(), http.StatusOK, &res)
	if err != nil {
		return nil, err
	}
	res.EmbeddingTokens, _ = strconv.Atoi(hdr.Get("X-Embedding-Tokens"))
	return &res, nil
}

// Stream sends a question and returns its answer as a sequence of events:
// sources, content chunks, then done. A failure after the stream opened
// arrives as a final EventError. The sequence must be ranged over exactly
// once; it releases the connection when the loop ends.
func (c *Client) Stream(ctx context.Context, q *Query) (iter.Seq[Event], error) {
	start := time.Now()
	if err := q.validate(); err != nil {
		c.obs.observe("stream", start, err)
		return nil, err
	}

	resp, err := c.send(ctx, http.MethodPost, apiPrefix+"/query/stream", nil, q.body())
	if err != nil {
		c.obs.observe("stream", start, err)
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		err := decodeAPIError(resp)
		_ = resp.Body.Close()
		c.obs.observe("stream", start, err)
		return nil, err
	}

	return func(yield func(Event) bool) {
		var streamErr error
		defer func() {
			_ = resp.Body.Close()
			c.obs.observe("stream", start, streamErr)
		}()

		dec := json.NewDecoder(resp.Body)
		for {
			ev, err := nextEvent(dec)
			if err != nil {
				streamErr = err
				yield(Event{Type: EventError, Err: err})
				return
			}
			if ev.Type == EventError {
				streamErr = ev.Err
			}
			if !yield(ev) || ev.Type == EventDone || ev.Type == EventError {
				return
			}
		}
	}, nil
}

type streamLine struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

func nextEvent(dec *json.Decoder) (Event, error) {
	var line streamLine
	if err := dec.Decode(&line); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Event{}, ErrStreamInterrupted
		}
		return Event{}, fmt.Errorf("geoknow: decode stream: %w", err)
	}

	ev := Event{Type: line.Type}
	switch line.Type {
	case EventSources:
		if err := json.Unmarshal(line.Data, &ev.Sources); err != nil {
			return Event{}, fmt.Errorf("geoknow: decode sources: %w", err)
		}
	case EventContent:
		if err := json.Unmarshal(line.Data, &ev.Content); err != nil {
			return Event{}, fmt.Errorf("geoknow: decode content: %w", err)
		}
	case EventError:
		var msg string
		_ = json.Unmarshal(line.Data, &msg)
		ev.Err = &streamError{message: msg}
	case EventDone:
	default:
		return Event{}, fmt.Errorf("geoknow: unknown stream event %q", line.Type)
	}
	return ev, nil
}

func (q *Query) validate() error {
	if q == nil || strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: query text is required", ErrInvalidArgument)
	}
	return nil
}
