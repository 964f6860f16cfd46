package bus

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftGeneratedEncoding(t *testing.T) {
	ev := DraftGenerated{
		DraftID:    "3f1c",
		Mode:       "offline",
		Paragraphs: 5,
		InputChars: 120,
		DurationMS: 3,
		Timestamp:  "2026-10-16T10:00:00Z",
	}

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "offline", raw["mode"])
	assert.EqualValues(t, 5, raw["paragraphs"])
	assert.NotContains(t, raw, "model")
}

func TestDraftFailedParsing(t *testing.T) {
	raw := `{"draft_id":"d-1","error":"completion upstream error 429: Rate limit reached","status_code":429,"timestamp":"2026-10-16T10:00:00Z"}`

	var ev DraftFailed
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))

	assert.Equal(t, "d-1", ev.DraftID)
	assert.Equal(t, 429, ev.StatusCode)
}

func TestEventSubjects(t *testing.T) {
	events := map[string]Event{
		"police.draft.generated": DraftGenerated{},
		"police.draft.failed":    DraftFailed{},
	}
	for subject, ev := range events {
		assert.Equal(t, subject, ev.Subject())
	}
}

func TestNewClient_ContextCancelClosesConnection(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Nothing listens on port 1; the client keeps retrying in the background.
	client, err := NewClient(ctx, "nats://127.0.0.1:1", "", zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()
	require.False(t, client.conn.IsClosed())

	cancel()

	assert.Eventually(t, client.conn.IsClosed, 2*time.Second, 10*time.Millisecond)
}

func TestClose_AfterContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	client, err := NewClient(ctx, "nats://127.0.0.1:1", "", zerolog.Nop())
	require.NoError(t, err)

	cancel()
	assert.Eventually(t, client.conn.IsClosed, 2*time.Second, 10*time.Millisecond)
	assert.NotPanics(t, client.Close)
}
