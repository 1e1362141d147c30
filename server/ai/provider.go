// Package ai wraps the external text-generation capability behind
// narrow-purpose operations. Providers are plain HTTP clients; the service
// layer owns prompts and response decoding, so backends can be swapped
// without touching engine code.
package ai

import (
	"context"

	"github.com/sqlcanvas/sqlcanvas/pkg/errors"
	"github.com/sqlcanvas/sqlcanvas/server/config"
)

// Provider is the interface all generative-text backends implement.
type Provider interface {
	// Generate sends a system instruction and a prompt, returning the raw
	// model reply.
	Generate(ctx context.Context, systemInstruction, prompt string) (string, error)

	// Name returns the provider name for display and logging.
	Name() string
}

// NewProvider builds a provider from the server AI configuration and a
// per-user API key.
func NewProvider(cfg config.AIConfig, apiKey string) (Provider, error) {
	switch cfg.Provider {
	case "gemini", "":
		if apiKey == "" {
			return nil, errors.New(ErrCredentialMissing, "gemini API key is not configured", nil)
		}
		return NewGemini(apiKey, cfg.Model), nil

	case "openai":
		if apiKey == "" {
			return nil, errors.New(ErrCredentialMissing, "openai API key is not configured", nil)
		}
		return NewOpenAI(apiKey, cfg.Model), nil

	case "ollama":
		return NewOllama(cfg.OllamaHost, cfg.Model), nil

	default:
		return nil, errors.Newf(ErrProviderUnknown, "unknown ai provider %q", cfg.Provider)
	}
}
