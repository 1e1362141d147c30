package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sqlcanvas/sqlcanvas/pkg/errors"
)

// Ollama implements the Provider interface for a local Ollama server.
// No API key needed.
type Ollama struct {
	host   string
	model  string
	client *http.Client
}

var _ Provider = (*Ollama)(nil)

// NewOllama creates an Ollama provider.
func NewOllama(host, model string) *Ollama {
	if host == "" {
		host = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}
	return &Ollama{host: host, model: model, client: http.DefaultClient}
}

func (o *Ollama) Name() string {
	return fmt.Sprintf("Ollama (%s)", o.model)
}

func (o *Ollama) Generate(ctx context.Context, systemInstruction, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"model":  o.model,
		"system": systemInstruction,
		"prompt": prompt,
		"stream": false,
	})
	if err != nil {
		return "", errors.New(ErrRequestFailed, "failed to encode ollama request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", errors.New(ErrRequestFailed, "failed to build ollama request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", errors.New(ErrRequestFailed, "ollama request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.New(ErrRequestFailed, "failed to read ollama response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf(ErrResponseStatus, "ollama API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", errors.New(ErrResponseDecode, "failed to decode ollama response", err)
	}

	if result.Response == "" {
		return "", errors.New(ErrResponseEmpty, "ollama returned no content", nil)
	}
	return result.Response, nil
}
