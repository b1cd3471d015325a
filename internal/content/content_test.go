package content_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maxbitcoins/internal/content"
)

func TestFit(t *testing.T) {
	assert.Equal(t, "short", content.Fit("  short \n", 280))

	long := strings.Repeat("a", 300)
	got := content.Fit(long, 280)
	assert.Equal(t, 280, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))

	exact := strings.Repeat("b", 280)
	assert.Equal(t, exact, content.Fit(exact, 280))
}

func TestFit_CountsRunesNotBytes(t *testing.T) {
	s := strings.Repeat("⚡", 281)
	got := content.Fit(s, 280)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 280, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("⚡", 277)+"...", got)
}

func TestStatic(t *testing.T) {
	got, err := content.Static("gm").Generate(context.Background(), "ignored", 10)
	require.NoError(t, err)
	assert.Equal(t, "gm", got)
}

func TestOllama_Generate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"response": "  Lightning tip \n", "done": true})
	}))
	defer srv.Close()

	o := content.NewOllama(srv.URL+"/", "test-model")
	text, err := o.Generate(context.Background(), "write a tip", 200)
	require.NoError(t, err)

	assert.Equal(t, "Lightning tip", text)
	assert.Equal(t, "test-model", got["model"])
	assert.Equal(t, "write a tip", got["prompt"])
	assert.Equal(t, false, got["stream"])
	opts := got["options"].(map[string]any)
	assert.Equal(t, float64(200), opts["num_predict"])
}

func TestOllama_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := content.NewOllama(srv.URL, "").Generate(context.Background(), "p", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestOllama_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	addr := srv.URL
	o := content.NewOllama(addr, "")
	assert.True(t, o.Available(context.Background()))

	srv.Close()
	assert.False(t, o.Available(context.Background()))
}
