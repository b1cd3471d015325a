// Package publish runs one posting attempt end to end.
//
// An attempt checks the posting budget, builds and signs a kind 1 note,
// hands it to the relay publisher and reports the result back to the
// budget. The returned Outcome keeps three kinds of failure apart: nothing
// was attempted (skipped), the attempt broke before anything was sent
// (failed), and the note was sent but no relay accepted it
// (unacknowledged).
package publish
