package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maxbitcoins/internal/crypto"
	"maxbitcoins/internal/domain"
	"maxbitcoins/internal/event"
	"maxbitcoins/internal/relay"
)

func startServer(t *testing.T) (*server, *httptest.Server, string) {
	t.Helper()
	s := newServer(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return s, srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func signedNote(t *testing.T, text string) domain.Event {
	t.Helper()
	kp, err := crypto.GenerateKeyPair(nil)
	require.NoError(t, err)
	ev, err := event.BuildTextNote(kp.Public, text, time.Now().Unix())
	require.NoError(t, err)
	ev, err = event.Sign(ev, crypto.Schnorr{}, kp.Secret)
	require.NoError(t, err)
	return ev
}

func TestPublisherAgainstServer(t *testing.T) {
	s, _, url := startServer(t)
	pub := relay.NewPublisher(2*time.Second, 3*time.Second, domain.NopLogger{})
	ev := signedNote(t, "end to end")

	res := pub.Publish(context.Background(), ev, []string{url})
	require.True(t, res.Success)
	assert.Empty(t, res.Outcomes[0].Message)

	again := pub.Publish(context.Background(), ev, []string{url})
	require.True(t, again.Success)
	assert.True(t, strings.HasPrefix(again.Outcomes[0].Message, "duplicate:"))

	assert.Len(t, s.store.list(), 1)
}

func TestServerRejectsForgedEvent(t *testing.T) {
	s, _, url := startServer(t)
	ev := signedNote(t, "original")
	ev.Content = "forged"

	res := relay.NewPublisher(2*time.Second, 3*time.Second, nil).Publish(context.Background(), ev, []string{url})

	require.False(t, res.Success)
	assert.ErrorIs(t, res.Outcomes[0].Err, domain.ErrRelayRejected)
	assert.True(t, strings.HasPrefix(res.Outcomes[0].Message, "invalid:"))
	assert.Empty(t, s.store.list())
}

func TestServerNotices(t *testing.T) {
	_, _, url := startServer(t)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	for in, want := range map[string]string{
		`garbage`:              "error: could not parse message",
		`["REQ","sub",{}]`:     "unsupported: REQ",
		`["EVENT","not-json"]`: "error: malformed EVENT",
	} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(in)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		msg, err := relay.ParseMessage(data)
		require.NoError(t, err)
		assert.Equal(t, relay.MessageNotice, msg.Kind, in)
		assert.Equal(t, want, msg.Text, in)
	}
}

func TestServerListsEvents(t *testing.T) {
	s, srv, _ := startServer(t)
	ev := signedNote(t, "listed")
	require.False(t, s.store.add(ev))

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	var got []domain.Event
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, ev.ID, got[0].ID)
}
