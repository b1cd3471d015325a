// Package store provides persistence for posting-budget state.
//
// It contains concrete implementations of domain.StateStore: a file-based
// store that serialises one JSON record per action type and an in-memory
// store for tests. File writes go through a temp file in the target
// directory followed by a rename, so a crash mid-write leaves the previous
// record intact. All methods are concurrency-safe via internal locking.
//
// The on-disk record is
//
//	{ "count": 1, "period_start": "2026-10-14", "failed_count": 0 }
package store
