package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/spectorr/internal/common"
)

// ProviderType represents the AI provider type
type ProviderType string

const (
	// ProviderClaude uses Anthropic Claude API
	ProviderClaude ProviderType = "claude"
	// ProviderGemini uses Google Gemini API
	ProviderGemini ProviderType = "gemini"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// ContentRequest represents a provider-agnostic content generation request
type ContentRequest struct {
	Messages          []Message
	SystemInstruction string
	JSONOutput        bool // Ask the provider for a JSON-only reply where it supports it
}

// Usage reports token consumption when the provider returns it
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// ContentResponse represents a provider-agnostic content generation response.
// Text is the raw model output, expected but not guaranteed to be JSON.
type ContentResponse struct {
	Text     string
	Provider ProviderType
	Model    string
	Usage    *Usage
}

// Provider is the external model service boundary
type Provider interface {
	GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error)
	GetProviderType() ProviderType
	GetModel() string
	Close() error
}

// NewProvider creates the provider named by llm.default_provider.
// Model, max output size and temperature are fixed at construction.
func NewProvider(ctx context.Context, config *common.Config, logger arbor.ILogger) (Provider, error) {
	switch ProviderType(strings.ToLower(string(config.LLM.DefaultProvider))) {
	case ProviderClaude, "":
		return NewClaudeProvider(&config.Claude, logger)
	case ProviderGemini:
		return NewGeminiProvider(ctx, &config.Gemini, logger)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", config.LLM.DefaultProvider)
	}
}

// validateMessages checks there is at least one user message
func validateMessages(messages []Message) error {
	if len(messages) == 0 {
		return fmt.Errorf("messages cannot be empty")
	}
	for _, msg := range messages {
		if msg.Role == "user" {
			return nil
		}
	}
	return fmt.Errorf("at least one message must have role 'user'")
}
