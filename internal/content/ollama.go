package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"maxbitcoins/internal/domain"
)

const (
	DefaultOllamaHost  = "http://localhost:11434"
	DefaultOllamaModel = "qwen2.5-coder:14b"
)

// Ollama generates text with a local Ollama server's /api/generate endpoint.
type Ollama struct {
	Base        string
	Model       string
	Temperature float64
	HTTP        *http.Client
}

// NewOllama returns a client for the server at base. Empty arguments fall
// back to the defaults.
func NewOllama(base, model string) *Ollama {
	if base == "" {
		base = DefaultOllamaHost
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return &Ollama{
		Base:        strings.TrimRight(base, "/"),
		Model:       model,
		Temperature: 0.7,
		HTTP:        &http.Client{Timeout: 120 * time.Second},
	}
}

var _ domain.ContentSource = (*Ollama)(nil)

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate asks the model for a completion of prompt limited to maxTokens.
func (o *Ollama) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	var out generateResponse
	err := o.post(ctx, "/api/generate", generateRequest{
		Model:  o.Model,
		Prompt: prompt,
		Options: generateOptions{
			NumPredict:  maxTokens,
			Temperature: o.Temperature,
		},
	}, &out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Response), nil
}

// Available reports whether the server answers /api/tags.
func (o *Ollama) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.Base+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := o.client().Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode/100 == 2
}

func (o *Ollama) post(ctx context.Context, path string, in any, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := o.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("ollama post %s: %s", path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (o *Ollama) client() *http.Client {
	if o.HTTP != nil {
		return o.HTTP
	}
	return http.DefaultClient
}
