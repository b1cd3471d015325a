package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"maxbitcoins/internal/content"
	"maxbitcoins/internal/crypto"
	"maxbitcoins/internal/domain"
	"maxbitcoins/internal/event"
	"maxbitcoins/internal/relay"
)

// previewRunes bounds how much note text reaches the logs.
const previewRunes = 50

// Status classifies how an attempt ended.
type Status string

const (
	StatusSkipped        Status = "skipped"
	StatusFailed         Status = "failed"
	StatusUnacknowledged Status = "unacknowledged"
	StatusPublished      Status = "published"
)

// ErrNotAccepted is returned in an unacknowledged Outcome. It is joined
// with the per-relay errors.
var ErrNotAccepted = errors.New("no relay accepted the event")

// Outcome describes one attempt.
type Outcome struct {
	AttemptID string
	Action    string
	Status    Status
	Event     domain.Event
	Result    domain.PublishResult
	// Err explains a non-published Status. For a published attempt it is
	// non-nil only if the budget could not be updated afterwards.
	Err error
}

// Success reports whether at least one relay accepted the note.
func (o Outcome) Success() bool { return o.Status == StatusPublished }

// Service wires the budget, signer and publisher into a single attempt.
type Service struct {
	budget    domain.PostingBudget
	signer    domain.Signer
	publisher domain.Publisher
	secrets   domain.SecretProvider
	relays    []string
	clock     domain.Clock
	ids       domain.IDGenerator
	log       domain.Logger
}

// New returns a publish Service. A nil clock means domain.RealClock; a nil
// logger discards output.
func New(
	budget domain.PostingBudget,
	signer domain.Signer,
	publisher domain.Publisher,
	secrets domain.SecretProvider,
	relays []string,
	clock domain.Clock,
	ids domain.IDGenerator,
	log domain.Logger,
) *Service {
	if clock == nil {
		clock = domain.RealClock{}
	}
	if log == nil {
		log = domain.NopLogger{}
	}
	return &Service{
		budget:    budget,
		signer:    signer,
		publisher: publisher,
		secrets:   secrets,
		relays:    relay.Dedupe(relays),
		clock:     clock,
		ids:       ids,
		log:       log,
	}
}

// AttemptPublish runs the full pipeline for text under action.
//
// A skipped attempt leaves the budget untouched. Every other attempt
// records exactly one outcome: success iff a relay accepted the note.
func (s *Service) AttemptPublish(ctx context.Context, action, text string) Outcome {
	a := s.begin(action)
	if a.skip(s.gate(action)) {
		return a.out
	}
	return s.run(ctx, a, text)
}

// Compose asks src for text and publishes it. The budget is checked before
// src is called, so a blocked action costs no generation. Generated text is
// cut to content.MaxNoteRunes.
func (s *Service) Compose(ctx context.Context, action string, src domain.ContentSource, prompt string, maxTokens int) Outcome {
	a := s.begin(action)
	if a.skip(s.gate(action)) {
		return a.out
	}
	text, err := src.Generate(ctx, prompt, maxTokens)
	if err != nil {
		return a.fail(fmt.Errorf("%w: %w", domain.ErrNoContent, err))
	}
	return s.run(ctx, a, content.Fit(text, content.MaxNoteRunes))
}

// SignNote builds and signs a kind 1 note without touching the budget or the
// network.
func (s *Service) SignNote(text string) (domain.Event, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Event{}, domain.ErrNoContent
	}

	raw, err := s.secrets.Secret()
	if err != nil {
		return domain.Event{}, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}
	secret, err := crypto.DecodeSecret(raw)
	if err != nil {
		return domain.Event{}, err
	}
	defer crypto.WipeSecret(&secret)

	pub, err := crypto.DerivePublic(secret)
	if err != nil {
		return domain.Event{}, err
	}
	ev, err := event.BuildTextNote(pub, text, s.clock.Now().Unix())
	if err != nil {
		return domain.Event{}, err
	}
	return event.Sign(ev, s.signer, secret)
}

// gate runs the checks that must pass before any work is done.
func (s *Service) gate(action string) error {
	if len(s.relays) == 0 {
		return domain.ErrNoRelays
	}
	return s.budget.Check(action)
}

func (s *Service) run(ctx context.Context, a *attempt, text string) Outcome {
	ev, err := s.SignNote(text)
	if err != nil {
		return a.fail(err)
	}
	a.out.Event = ev
	s.log.Info("publishing note",
		"attempt", a.out.AttemptID, "action", a.out.Action, "event_id", ev.ID,
		"relays", len(s.relays), "content", content.Fit(ev.Content, previewRunes))

	res := s.publisher.Publish(ctx, ev, s.relays)
	a.out.Result = res
	if !res.Success {
		errs := []error{ErrNotAccepted}
		for _, o := range res.Outcomes {
			if o.Err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", o.Relay, o.Err))
			}
		}
		a.out.Status = StatusUnacknowledged
		a.out.Err = errors.Join(errs...)
		s.log.Warn("note not accepted by any relay",
			"attempt", a.out.AttemptID, "action", a.out.Action, "event_id", ev.ID)
		a.record(false)
		return a.out
	}

	a.out.Status = StatusPublished
	s.log.Info("note published",
		"attempt", a.out.AttemptID, "action", a.out.Action, "event_id", ev.ID,
		"accepted", countAccepted(res.Outcomes), "relays", len(res.Outcomes))
	a.record(true)
	return a.out
}

// attempt carries the outcome under construction.
type attempt struct {
	s   *Service
	out Outcome
}

func (s *Service) begin(action string) *attempt {
	var id string
	if s.ids != nil {
		id = s.ids.New()
	}
	return &attempt{s: s, out: Outcome{AttemptID: id, Action: action}}
}

func (a *attempt) skip(err error) bool {
	if err == nil {
		return false
	}
	a.out.Status = StatusSkipped
	a.out.Err = err
	a.s.log.Info("publish skipped", "attempt", a.out.AttemptID, "action", a.out.Action, "reason", err)
	return true
}

func (a *attempt) fail(err error) Outcome {
	a.out.Status = StatusFailed
	a.out.Err = err
	a.s.log.Error("publish failed", "attempt", a.out.AttemptID, "action", a.out.Action, "err", err)
	a.record(false)
	return a.out
}

func (a *attempt) record(success bool) {
	if err := a.s.budget.RecordOutcome(a.out.Action, success); err != nil {
		a.s.log.Error("recording budget outcome failed",
			"attempt", a.out.AttemptID, "action", a.out.Action, "err", err)
		a.out.Err = errors.Join(a.out.Err, err)
	}
}

func countAccepted(outcomes []domain.RelayOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Accepted {
			n++
		}
	}
	return n
}
