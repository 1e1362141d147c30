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

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAI implements the Provider interface for the OpenAI chat API.
type OpenAI struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

var _ Provider = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI provider.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultOpenAIBaseURL,
		client:  http.DefaultClient,
	}
}

func (o *OpenAI) Name() string {
	return fmt.Sprintf("OpenAI (%s)", o.model)
}

func (o *OpenAI) Generate(ctx context.Context, systemInstruction, prompt string) (string, error) {
	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	var messages []message
	if systemInstruction != "" {
		messages = append(messages, message{Role: "system", Content: systemInstruction})
	}
	messages = append(messages, message{Role: "user", Content: prompt})

	payload, err := json.Marshal(map[string]interface{}{
		"model":    o.model,
		"messages": messages,
	})
	if err != nil {
		return "", errors.New(ErrRequestFailed, "failed to encode openai request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", errors.New(ErrRequestFailed, "failed to build openai request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", errors.New(ErrRequestFailed, "openai request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.New(ErrRequestFailed, "failed to read openai response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf(ErrResponseStatus, "openai API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", errors.New(ErrResponseDecode, "failed to decode openai response", err)
	}

	if len(result.Choices) == 0 {
		return "", errors.New(ErrResponseEmpty, "openai returned no choices", nil)
	}
	return result.Choices[0].Message.Content, nil
}
