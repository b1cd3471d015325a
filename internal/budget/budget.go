package budget

import (
	"fmt"
	"sort"

	"maxbitcoins/internal/domain"
)

// Budget enforces per-action posting quotas and a consecutive-failure
// circuit breaker over state held in a domain.StateStore.
//
// Counters roll over lazily: a stored record whose period marker is not the
// current one has its count read as zero, and the reset is written by the
// next RecordOutcome. The failure streak does not roll over. Check never
// writes.
type Budget struct {
	store    domain.StateStore
	policies map[string]Policy
	clock    domain.Clock
}

// New returns a Budget. A nil clock means domain.RealClock.
func New(store domain.StateStore, policies map[string]Policy, clock domain.Clock) *Budget {
	if clock == nil {
		clock = domain.RealClock{}
	}
	ps := make(map[string]Policy, len(policies))
	for k, v := range policies {
		ps[k] = v
	}
	return &Budget{store: store, policies: ps, clock: clock}
}

var _ domain.PostingBudget = (*Budget)(nil)

// Status is a read-only view of one action's budget.
type Status struct {
	Action      string
	Policy      Policy
	PeriodStart string
	Count       int
	FailedCount int
	Remaining   int
	// Blocked is nil when the action may run, otherwise the reason it may not.
	Blocked error
}

// Check returns nil if action may run now. Otherwise the error wraps
// ErrUnknownAction, ErrDisabled, ErrCircuitOpen, ErrBudgetExceeded, or the
// store failure that prevented a decision.
func (b *Budget) Check(action string) error {
	st, err := b.Status(action)
	if err != nil {
		return err
	}
	return st.Blocked
}

// CanAct reports whether Check succeeds. Any failure, including an
// unreadable store, means false.
func (b *Budget) CanAct(action string) bool {
	return b.Check(action) == nil
}

// RecordOutcome updates the counters for one attempt. Success increments the
// count and clears the failure streak; failure extends the streak. The write
// is atomic when the store's is.
func (b *Budget) RecordOutcome(action string, success bool) error {
	p, ok := b.policies[action]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownAction, action)
	}
	st, err := b.current(action, p)
	if err != nil {
		return err
	}
	if success {
		st.Count++
		st.FailedCount = 0
	} else {
		st.FailedCount++
	}
	if err := b.store.SaveState(action, st); err != nil {
		return fmt.Errorf("save %s budget: %w", action, err)
	}
	return nil
}

// ResetBreaker clears the failure streak of action without touching the
// period count, closing an open circuit breaker by hand.
func (b *Budget) ResetBreaker(action string) error {
	p, ok := b.policies[action]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownAction, action)
	}
	st, err := b.current(action, p)
	if err != nil {
		return err
	}
	st.FailedCount = 0
	if err := b.store.SaveState(action, st); err != nil {
		return fmt.Errorf("save %s budget: %w", action, err)
	}
	return nil
}

// Status reports the current counters and whether action is blocked.
// The error is non-nil only for unknown actions and store failures.
func (b *Budget) Status(action string) (Status, error) {
	p, ok := b.policies[action]
	if !ok {
		return Status{}, fmt.Errorf("%w: %q", domain.ErrUnknownAction, action)
	}
	st, err := b.current(action, p)
	if err != nil {
		return Status{}, err
	}

	s := Status{
		Action:      action,
		Policy:      p,
		PeriodStart: st.PeriodStart,
		Count:       st.Count,
		FailedCount: st.FailedCount,
		Remaining:   max(p.Quota-st.Count, 0),
	}
	switch {
	case !p.Enabled:
		s.Blocked = fmt.Errorf("%w: %s", domain.ErrDisabled, action)
	case p.FailureThreshold > 0 && st.FailedCount >= p.FailureThreshold:
		s.Blocked = fmt.Errorf("%w: %s has %d consecutive failures", domain.ErrCircuitOpen, action, st.FailedCount)
	case st.Count >= p.Quota:
		s.Blocked = fmt.Errorf("%w: %s used %d of %d this %s", domain.ErrBudgetExceeded, action, st.Count, p.Quota, p.Period)
	}
	return s, nil
}

// Actions lists the configured action types in sorted order.
func (b *Budget) Actions() []string {
	out := make([]string, 0, len(b.policies))
	for k := range b.policies {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// current loads the stored record and applies a pending rollover in memory.
// A new period clears the count only; the failure streak survives until a
// success or ResetBreaker.
func (b *Budget) current(action string, p Policy) (domain.PostingState, error) {
	st, _, err := b.store.LoadState(action)
	if err != nil {
		return domain.PostingState{}, fmt.Errorf("load %s budget: %w", action, err)
	}
	if now := p.Period.Start(b.clock.Now()); st.PeriodStart != now {
		st.Count = 0
		st.PeriodStart = now
	}
	return st, nil
}
