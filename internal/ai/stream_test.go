package ai

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sseStream(events ...string) *Stream {
	var b strings.Builder
	for _, ev := range events {
		b.WriteString("data: " + ev + "\n\n")
	}
	return newStream(io.NopCloser(strings.NewReader(b.String())))
}

func TestStreamDeliversDeltasInArrivalOrder(t *testing.T) {
	s := sseStream(
		`{"type":"response.output_text.delta","delta":"Hel"}`,
		`{"type":"response.output_text.delta","delta":"lo"}`,
		`{"type":"response.completed","response":{"id":"resp_1","status":"completed"}}`,
	)
	defer s.Close()

	var deltas []string
	var final *Response
	for {
		ev, err := s.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		switch ev.Type {
		case EventTextDelta:
			deltas = append(deltas, ev.Text)
		case EventCompleted:
			final = ev.Response
		}
	}

	assert.Equal(t, []string{"Hel", "lo"}, deltas)
	require.NotNil(t, final)
	assert.Equal(t, "resp_1", final.ID)
}

func TestStreamSkipsNoiseLines(t *testing.T) {
	raw := strings.Join([]string{
		"event: response.output_text.delta",
		`data: {"type":"response.output_text.delta","delta":"x"}`,
		"",
		"data: [DONE]",
		"",
	}, "\n")
	s := newStream(io.NopCloser(strings.NewReader(raw)))
	defer s.Close()

	ev, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, EventTextDelta, ev.Type)
	assert.Equal(t, "x", ev.Text)

	_, err = s.Recv()
	assert.Equal(t, io.EOF, err)
}

func TestStreamErrorEvent(t *testing.T) {
	s := sseStream(`{"type":"error","code":"server_error","message":"boom"}`)
	defer s.Close()

	ev, err := s.Recv()
	require.NoError(t, err)
	require.Equal(t, EventError, ev.Type)
	assert.ErrorContains(t, ev.Err, "boom")
}

func TestStreamFailedResponseEvent(t *testing.T) {
	s := sseStream(`{"type":"response.failed","response":{"id":"resp_9","error":{"message":"model overloaded"}}}`)
	defer s.Close()

	ev, err := s.Recv()
	require.NoError(t, err)
	require.Equal(t, EventError, ev.Type)
	assert.ErrorContains(t, ev.Err, "model overloaded")
}

func TestResponseOutputTextAndFunctionCalls(t *testing.T) {
	resp := &Response{
		ID: "resp_2",
		Output: []OutputItem{
			{Type: "message", Role: "assistant", Content: []ContentPart{
				{Type: "output_text", Text: "Hello "},
				{Type: "output_text", Text: "there"},
			}},
			{Type: "function_call", CallID: "call_1", Name: "enrich", Arguments: `{"email":"a@b.co"}`},
		},
	}

	assert.Equal(t, "Hello there", resp.OutputText())
	calls := resp.FunctionCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "call_1", calls[0].CallID)
}
