package budget

import (
	"fmt"
	"strings"
	"time"
)

// Action types with built-in policies.
const (
	ActionNostrPost     = "nostr_post"
	ActionBlogPost      = "blog_post"
	ActionEmailOutreach = "email_outreach"
)

// DefaultFailureThreshold is the number of consecutive failures that opens
// the circuit breaker.
const DefaultFailureThreshold = 2

// Period is the window a quota applies to.
type Period string

const (
	Day  Period = "day"
	Week Period = "week"
)

// ParsePeriod accepts "day" or "week" in any case.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case Day, Week:
		return p, nil
	default:
		return "", fmt.Errorf("unknown budget period %q (want day or week)", s)
	}
}

// Start returns the marker of the period containing t: the ISO date of the
// day, or of the Monday that opens the week. t's location decides where
// days begin.
func (p Period) Start(t time.Time) string {
	if p == Week {
		// Monday=0 … Sunday=6
		offset := (int(t.Weekday()) + 6) % 7
		t = t.AddDate(0, 0, -offset)
	}
	return t.Format(time.DateOnly)
}

// Policy limits one action type.
type Policy struct {
	Enabled          bool
	Quota            int
	Period           Period
	FailureThreshold int
}

// DefaultPolicies returns the built-in limits, keyed by action type.
func DefaultPolicies() map[string]Policy {
	return map[string]Policy{
		ActionNostrPost:     {Enabled: true, Quota: 3, Period: Day, FailureThreshold: DefaultFailureThreshold},
		ActionBlogPost:      {Enabled: true, Quota: 2, Period: Week, FailureThreshold: DefaultFailureThreshold},
		ActionEmailOutreach: {Enabled: true, Quota: 5, Period: Day, FailureThreshold: DefaultFailureThreshold},
	}
}
