package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"maxbitcoins/internal/domain"
)

const (
	DefaultPerRelayTimeout = 10 * time.Second
	DefaultOverallTimeout  = 15 * time.Second
)

// Publisher sends a signed event to several relays at once and collects
// their acknowledgements.
type Publisher struct {
	Dialer          *websocket.Dialer
	PerRelayTimeout time.Duration
	OverallTimeout  time.Duration
	Log             domain.Logger
}

// NewPublisher returns a Publisher with the given timeouts. Zero values fall
// back to the package defaults.
func NewPublisher(perRelay, overall time.Duration, log domain.Logger) *Publisher {
	return &Publisher{
		Dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: perRelay,
		},
		PerRelayTimeout: perRelay,
		OverallTimeout:  overall,
		Log:             log,
	}
}

var _ domain.Publisher = (*Publisher)(nil)

type indexedOutcome struct {
	i int
	o domain.RelayOutcome
}

// Publish delivers ev to every relay concurrently.
//
// Each relay gets PerRelayTimeout to answer; the whole call returns after at
// most OverallTimeout. Relays still pending at that point are recorded as
// timeouts and whatever they send afterwards is dropped. Outcomes are in the
// order of the de-duplicated relay list.
func (p *Publisher) Publish(ctx context.Context, ev domain.Event, relays []string) domain.PublishResult {
	relays = Dedupe(relays)
	if len(relays) == 0 {
		return domain.PublishResult{Outcomes: []domain.RelayOutcome{}}
	}

	outcomes := make([]domain.RelayOutcome, len(relays))

	frame, err := EncodeEvent(ev)
	if err != nil {
		for i, url := range relays {
			outcomes[i] = domain.RelayOutcome{Relay: url, Err: err}
		}
		return domain.PublishResult{Outcomes: outcomes}
	}

	ctx, cancel := context.WithTimeout(ctx, p.overallTimeout())
	defer cancel()

	// Buffered so abandoned senders never block.
	results := make(chan indexedOutcome, len(relays))
	for i, url := range relays {
		go func() {
			results <- indexedOutcome{i: i, o: p.publishOne(ctx, url, ev.ID, frame)}
		}()
	}

	reported := make([]bool, len(relays))
	pending := len(relays)
collect:
	for pending > 0 {
		select {
		case r := <-results:
			outcomes[r.i] = r.o
			reported[r.i] = true
			pending--
		case <-ctx.Done():
			break collect
		}
	}
	for i, url := range relays {
		if !reported[i] {
			outcomes[i] = domain.RelayOutcome{
				Relay: url,
				Err:   fmt.Errorf("%w: no acknowledgement within overall timeout", domain.ErrRelayTimeout),
			}
		}
	}

	for _, o := range outcomes {
		if o.Accepted {
			p.log().Debug("relay accepted event", "relay", o.Relay, "event_id", ev.ID, "message", o.Message)
		} else {
			p.log().Warn("relay did not accept event", "relay", o.Relay, "event_id", ev.ID, "err", o.Err)
		}
	}

	return domain.PublishResult{Success: Aggregate(outcomes), Outcomes: outcomes}
}

// publishOne runs the EVENT/OK exchange with a single relay.
func (p *Publisher) publishOne(ctx context.Context, url, eventID string, frame []byte) domain.RelayOutcome {
	ctx, cancel := context.WithTimeout(ctx, p.perRelayTimeout())
	defer cancel()

	out := domain.RelayOutcome{Relay: url}
	fail := func(stage string, err error) domain.RelayOutcome {
		if ctx.Err() != nil || isTimeout(err) {
			out.Err = fmt.Errorf("%w: %s: %w", domain.ErrRelayTimeout, stage, err)
		} else {
			out.Err = fmt.Errorf("%w: %s: %w", domain.ErrRelayConnect, stage, err)
		}
		return out
	}

	conn, resp, err := p.dialer().DialContext(ctx, url, nil)
	if err != nil {
		return fail("dial", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	defer conn.Close()

	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(dl)
		_ = conn.SetWriteDeadline(dl)
	}
	// Wake a blocked read when the caller gives up early.
	stop := context.AfterFunc(ctx, func() { _ = conn.SetReadDeadline(time.Now()) })
	defer stop()

	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fail("write", err)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fail("read", err)
		}
		msg, err := ParseMessage(data)
		if err != nil {
			p.log().Debug("ignoring malformed relay frame", "relay", url, "err", err)
			continue
		}
		switch msg.Kind {
		case MessageOK:
			if msg.EventID != eventID {
				continue
			}
			out.Message = msg.Text
			if msg.Accepted {
				out.Accepted = true
				return out
			}
			out.Err = fmt.Errorf("%w: %s", domain.ErrRelayRejected, msg.Text)
			return out
		case MessageNotice:
			out.Message = msg.Text
			out.Err = fmt.Errorf("%w: notice: %s", domain.ErrRelayRejected, msg.Text)
			return out
		}
	}
}

// Aggregate reports whether at least one relay accepted the event.
func Aggregate(outcomes []domain.RelayOutcome) bool {
	for _, o := range outcomes {
		if o.Accepted {
			return true
		}
	}
	return false
}

// Dedupe trims relay addresses and drops blanks and repeats, keeping the
// first occurrence of each.
func Dedupe(relays []string) []string {
	seen := make(map[string]struct{}, len(relays))
	out := make([]string, 0, len(relays))
	for _, r := range relays {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func (p *Publisher) dialer() *websocket.Dialer {
	if p.Dialer != nil {
		return p.Dialer
	}
	return websocket.DefaultDialer
}

func (p *Publisher) perRelayTimeout() time.Duration {
	if p.PerRelayTimeout > 0 {
		return p.PerRelayTimeout
	}
	return DefaultPerRelayTimeout
}

func (p *Publisher) overallTimeout() time.Duration {
	if p.OverallTimeout > 0 {
		return p.OverallTimeout
	}
	return DefaultOverallTimeout
}

func (p *Publisher) log() domain.Logger {
	if p.Log != nil {
		return p.Log
	}
	return domain.NopLogger{}
}
