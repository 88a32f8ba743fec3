package ai

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// EventType tags the kind of a stream event.
type EventType int

const (
	// EventTextDelta carries one incremental piece of output text, in
	// arrival order.
	EventTextDelta EventType = iota
	// EventCompleted carries the finalized response, including any
	// function_call output items.
	EventCompleted
	// EventError carries a provider-level error; the turn is aborted.
	EventError
)

type Event struct {
	Type     EventType
	Text     string
	Response *Response
	Err      error
}

// Stream decodes the provider's server-sent events into Events. Recv
// returns io.EOF when the stream ends.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

func newStream(body io.ReadCloser) *Stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Stream{body: body, scanner: scanner}
}

// streamEvent is the decoded shape of one SSE data payload. The payload's
// "type" field discriminates; fields not relevant to a given type stay
// zero.
type streamEvent struct {
	Type     string    `json:"type"`
	Delta    string    `json:"delta,omitempty"`
	Response *Response `json:"response,omitempty"`
	Code     string    `json:"code,omitempty"`
	Message  string    `json:"message,omitempty"`
}

func (s *Stream) Recv() (Event, error) {
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}

		var ev streamEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			continue
		}

		switch ev.Type {
		case "response.output_text.delta":
			return Event{Type: EventTextDelta, Text: ev.Delta}, nil
		case "response.completed":
			return Event{Type: EventCompleted, Response: ev.Response}, nil
		case "response.failed", "response.incomplete":
			apiErr := &APIError{Message: "response failed"}
			if ev.Response != nil && ev.Response.Error != nil {
				apiErr = ev.Response.Error
			}
			return Event{Type: EventError, Err: apiErr}, nil
		case "error":
			return Event{Type: EventError, Err: &APIError{Code: ev.Code, Message: ev.Message}}, nil
		}
	}
	if err := s.scanner.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}

func (s *Stream) Close() error {
	return s.body.Close()
}
