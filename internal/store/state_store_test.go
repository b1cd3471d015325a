package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"maxbitcoins/internal/domain"
	"maxbitcoins/internal/store"
)

func TestStateFile_SaveLoad_OK(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	var st domain.StateStore = store.NewStateFileStore(dir)

	want := domain.PostingState{Count: 2, PeriodStart: "2026-10-14", FailedCount: 1}
	if err := st.SaveState("nostr_post", want); err != nil {
		t.Fatalf("save state: %v", err)
	}

	got, ok, err := st.LoadState("nostr_post")
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if !ok {
		t.Fatal("expected state to be found")
	}
	if got != want {
		t.Fatalf("mismatch after load: got %+v want %+v", got, want)
	}
}

func TestStateFile_Missing_IsZero(t *testing.T) {
	st := store.NewStateFileStore(t.TempDir())

	got, ok, err := st.LoadState("nostr_post")
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if ok {
		t.Fatal("expected missing state")
	}
	if got != (domain.PostingState{}) {
		t.Fatalf("expected zero state, got %+v", got)
	}
}

func TestStateFile_FileLayout(t *testing.T) {
	dir := t.TempDir()
	st := store.NewStateFileStore(dir)

	if err := st.SaveState("blog_post", domain.PostingState{Count: 1, PeriodStart: "2026-10-12"}); err != nil {
		t.Fatalf("save state: %v", err)
	}

	path := filepath.Join(dir, "blog_post_state.json")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read state file: %v", err)
	}
	for _, key := range []string{`"count": 1`, `"period_start": "2026-10-12"`, `"failed_count": 0`} {
		if !strings.Contains(string(b), key) {
			t.Fatalf("state file missing %s:\n%s", key, b)
		}
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", fi.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the state file, found %d entries", len(entries))
	}
}

func TestStateFile_Overwrite_ReplacesRecord(t *testing.T) {
	st := store.NewStateFileStore(t.TempDir())

	for i := 1; i <= 3; i++ {
		if err := st.SaveState("nostr_post", domain.PostingState{Count: i, PeriodStart: "2026-10-14"}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	got, _, err := st.LoadState("nostr_post")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Count != 3 {
		t.Fatalf("count = %d, want 3", got.Count)
	}
}

func TestStateFile_Corrupt_Fails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "nostr_post_state.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	st := store.NewStateFileStore(dir)

	if _, _, err := st.LoadState("nostr_post"); err == nil {
		t.Fatal("expected error for corrupt state file")
	}
}

func TestStateFile_BadActionName_Rejected(t *testing.T) {
	st := store.NewStateFileStore(t.TempDir())

	for _, action := range []string{"", "../escape", "Nostr", "a/b", "x y"} {
		_, _, err := st.LoadState(action)
		if !errors.Is(err, domain.ErrUnknownAction) {
			t.Fatalf("LoadState(%q): expected ErrUnknownAction, got %v", action, err)
		}
		if err := st.SaveState(action, domain.PostingState{}); !errors.Is(err, domain.ErrUnknownAction) {
			t.Fatalf("SaveState(%q): expected ErrUnknownAction, got %v", action, err)
		}
	}
}

func TestMemory_SaveLoad_OK(t *testing.T) {
	st := store.NewMemoryStateStore()

	if _, ok, _ := st.LoadState("nostr_post"); ok {
		t.Fatal("expected empty store")
	}
	want := domain.PostingState{Count: 1, PeriodStart: "2026-10-14"}
	if err := st.SaveState("nostr_post", want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := st.LoadState("nostr_post")
	if err != nil || !ok || got != want {
		t.Fatalf("load = %+v, %v, %v", got, ok, err)
	}
	if st.Saves() != 1 {
		t.Fatalf("saves = %d, want 1", st.Saves())
	}
}
