package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const (
	SubjectDraftGenerated = "police.draft.generated"
	SubjectDraftFailed    = "police.draft.failed"
)

// DraftGenerated announces a served draft. It never carries narration text.
type DraftGenerated struct {
	DraftID    string `json:"draft_id"`
	Mode       string `json:"mode"` // upstream | offline
	Model      string `json:"model,omitempty"`
	Paragraphs int    `json:"paragraphs"`
	InputChars int    `json:"input_chars"`
	DurationMS int64  `json:"duration_ms"`
	Timestamp  string `json:"timestamp"`
}

// DraftFailed announces a request that ended in an error response.
type DraftFailed struct {
	DraftID    string `json:"draft_id"`
	Error      string `json:"error"`
	StatusCode int    `json:"status_code,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// Event is a draft lifecycle message. Each event type publishes on its own
// subject.
type Event interface {
	Subject() string
}

func (DraftGenerated) Subject() string { return SubjectDraftGenerated }

func (DraftFailed) Subject() string { return SubjectDraftFailed }

type Client struct {
	conn   *nats.Conn
	stop   func() bool
	logger zerolog.Logger
}

// NewClient connects to NATS. The connection is drained when ctx is done or
// Close is called, whichever comes first.
func NewClient(ctx context.Context, url, token string, logger zerolog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name("policedraft"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info().Msg("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	stop := context.AfterFunc(ctx, func() {
		logger.Info().Msg("context done, draining nats connection")
		drain(nc)
	})

	return &Client{conn: nc, stop: stop, logger: logger}, nil
}

func (c *Client) Publish(ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.Subject(), err)
	}
	if err := c.conn.Publish(ev.Subject(), payload); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Subject(), err)
	}
	return nil
}

// Close flushes pending events before closing the connection.
func (c *Client) Close() {
	if c.stop() {
		drain(c.conn)
	}
}

func drain(nc *nats.Conn) {
	if err := nc.Drain(); err != nil {
		nc.Close()
	}
}
