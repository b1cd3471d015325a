// Package budget gates publishing actions by quota and by consecutive
// failures.
//
// Each action type (nostr_post, blog_post, email_outreach or a configured
// one) has a Policy: whether it is enabled, how many successes are allowed
// per day or per week, and how many consecutive failures open the circuit
// breaker. State lives in a domain.StateStore so limits hold across runs.
package budget
