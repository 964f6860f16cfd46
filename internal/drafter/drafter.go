package drafter

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MikeSquared-Agency/policedraft/internal/bus"
	"github.com/MikeSquared-Agency/policedraft/internal/completion"
	"github.com/MikeSquared-Agency/policedraft/internal/normalize"
	"github.com/MikeSquared-Agency/policedraft/internal/prompt"
)

// Completer answers an assembled conversation.
type Completer interface {
	Complete(ctx context.Context, msgs []prompt.Message) (completion.Completion, error)
}

// Publisher receives draft lifecycle events. A nil Publisher disables them.
type Publisher interface {
	Publish(ev bus.Event) error
}

type Options struct {
	SystemPrompt  string
	Examples      []prompt.Example
	MinParagraphs int
}

// DefaultOptions uses the built-in police statement prompt.
func DefaultOptions() Options {
	return Options{
		SystemPrompt:  prompt.SystemPrompt,
		Examples:      prompt.Examples,
		MinParagraphs: normalize.DefaultMinParagraphs,
	}
}

type Drafter struct {
	llm        Completer
	events     Publisher
	opts       Options
	normalizer normalize.Normalizer
	logger     zerolog.Logger
}

func New(llm Completer, events Publisher, opts Options, logger zerolog.Logger) *Drafter {
	return &Drafter{
		llm:        llm,
		events:     events,
		opts:       opts,
		normalizer: normalize.Normalizer{MinParagraphs: opts.MinParagraphs},
		logger:     logger,
	}
}

// Draft is one served result.
type Draft struct {
	ID         uuid.UUID
	HTML       string
	Paragraphs int
	Offline    bool
	Model      string
}

// Draft turns a narration into normalized paragraph HTML.
func (d *Drafter) Draft(ctx context.Context, narration string) (*Draft, error) {
	id := uuid.New()
	start := time.Now()
	log := d.logger.With().Str("draft_id", id.String()).Logger()

	log.Info().Int("input_len", len(narration)).Msg("drafting")

	msgs := prompt.Assemble(d.opts.SystemPrompt, d.opts.Examples, narration)
	answer, err := d.llm.Complete(ctx, msgs)
	if err != nil {
		log.Error().Err(err).Msg("draft failed")
		d.publishFailure(id, err)
		return nil, err
	}

	result := d.normalizer.Normalize(answer.Text)
	draft := &Draft{
		ID:         id,
		HTML:       result.HTML(),
		Paragraphs: len(result),
		Offline:    answer.Offline,
		Model:      answer.Model,
	}

	log.Info().
		Bool("offline", draft.Offline).
		Int("paragraphs", draft.Paragraphs).
		Dur("elapsed", time.Since(start)).
		Msg("draft ready")

	d.publish(bus.DraftGenerated{
		DraftID:    id.String(),
		Mode:       mode(draft.Offline),
		Model:      draft.Model,
		Paragraphs: draft.Paragraphs,
		InputChars: len([]rune(narration)),
		DurationMS: time.Since(start).Milliseconds(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
	return draft, nil
}

func (d *Drafter) publishFailure(id uuid.UUID, err error) {
	ev := bus.DraftFailed{
		DraftID:   id.String(),
		Error:     err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	var uerr *completion.UpstreamError
	if errors.As(err, &uerr) {
		ev.StatusCode = uerr.StatusCode
	}
	d.publish(ev)
}

func (d *Drafter) publish(ev bus.Event) {
	if d.events == nil {
		return
	}
	if err := d.events.Publish(ev); err != nil {
		d.logger.Warn().Err(err).Str("subject", ev.Subject()).Msg("failed to publish draft event")
	}
}

func mode(offline bool) string {
	if offline {
		return "offline"
	}
	return "upstream"
}
