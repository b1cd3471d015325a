package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"maxbitcoins/internal/domain"
	"maxbitcoins/internal/event"
	"maxbitcoins/internal/relay"
)

type memoryStore struct {
	mu     sync.RWMutex
	events map[string]domain.Event
	order  []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{events: make(map[string]domain.Event)}
}

// add stores ev and reports whether it was already present.
func (s *memoryStore) add(ev domain.Event) (duplicate bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[ev.ID]; ok {
		return true
	}
	s.events[ev.ID] = ev
	s.order = append(s.order, ev.ID)
	return false
}

func (s *memoryStore) list() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Event, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.events[id])
	}
	return out
}

type server struct {
	store    *memoryStore
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func newServer(log *slog.Logger) *server {
	return &server{
		store:    newMemoryStore(),
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		log:      log,
	}
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s.store.list())
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if err := conn.WriteJSON(s.handle(data)); err != nil {
			return
		}
	}
}

// handle answers one client frame.
func (s *server) handle(data []byte) []any {
	var parts []json.RawMessage
	var label string
	if json.Unmarshal(data, &parts) != nil || len(parts) == 0 || json.Unmarshal(parts[0], &label) != nil {
		return []any{relay.LabelNotice, "error: could not parse message"}
	}
	if label != relay.LabelEvent {
		return []any{relay.LabelNotice, "unsupported: " + label}
	}

	var ev domain.Event
	if len(parts) != 2 || json.Unmarshal(parts[1], &ev) != nil {
		return []any{relay.LabelNotice, "error: malformed EVENT"}
	}
	if err := event.Verify(ev); err != nil {
		s.log.Info("rejected event", "id", ev.ID, "err", err)
		return []any{relay.LabelOK, ev.ID, false, "invalid: " + err.Error()}
	}
	if s.store.add(ev) {
		return []any{relay.LabelOK, ev.ID, true, "duplicate: already have this event"}
	}
	s.log.Info("stored event", "id", ev.ID, "pubkey", ev.PubKey, "kind", ev.Kind)
	return []any{relay.LabelOK, ev.ID, true, ""}
}
