package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/spectorr/internal/common"
)

// ClaudeProvider generates content with the Anthropic Messages API
type ClaudeProvider struct {
	config  *common.ClaudeConfig
	logger  arbor.ILogger
	client  anthropic.Client
	timeout time.Duration
}

// NewClaudeProvider creates a Claude provider.
//
// The SDK's own retries are disabled: a failed call surfaces to the caller at once.
func NewClaudeProvider(config *common.ClaudeConfig, logger arbor.ILogger) (*ClaudeProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required for Claude provider (set via ANTHROPIC_API_KEY, SPECTORR_CLAUDE_API_KEY, or claude.api_key in config)")
	}

	timeout, err := common.ParseTimeout(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	p := &ClaudeProvider{
		config:  config,
		logger:  logger,
		client:  anthropic.NewClient(opts...),
		timeout: timeout,
	}

	logger.Debug().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Float64("temperature", config.Temperature).
		Int("max_tokens", config.MaxTokens).
		Msg("Claude provider initialized")

	return p, nil
}

// convertMessagesToClaude converts messages to Claude MessageParam format.
// System messages are returned separately for the System parameter.
func convertMessagesToClaude(messages []Message) ([]anthropic.MessageParam, string, error) {
	if err := validateMessages(messages); err != nil {
		return nil, "", err
	}

	claudeMessages := make([]anthropic.MessageParam, 0, len(messages))
	var systemText string
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			if systemText == "" {
				systemText = msg.Content
			}
		case "assistant":
			claudeMessages = append(claudeMessages, anthropic.NewAssistantMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		default:
			claudeMessages = append(claudeMessages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		}
	}

	return claudeMessages, systemText, nil
}

// GenerateContent issues one Messages call bounded by the configured timeout
func (p *ClaudeProvider) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	claudeMessages, systemText, err := convertMessagesToClaude(request.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages to Claude format: %w", err)
	}
	if request.SystemInstruction != "" {
		systemText = request.SystemInstruction
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.config.Model),
		MaxTokens:   int64(p.config.MaxTokens),
		Messages:    claudeMessages,
		Temperature: anthropic.Float(p.config.Temperature),
	}
	if systemText != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemText},
		}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.Messages.New(timeoutCtx, params)
	if err != nil {
		return nil, &ExternalServiceError{Provider: ProviderClaude, Model: p.config.Model, Err: err}
	}

	// Concatenate text blocks; an empty reply is left for the caller's fallback path
	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return &ContentResponse{
		Text:     text,
		Provider: ProviderClaude,
		Model:    p.config.Model,
		Usage: &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}, nil
}

func (p *ClaudeProvider) GetProviderType() ProviderType {
	return ProviderClaude
}

func (p *ClaudeProvider) GetModel() string {
	return p.config.Model
}

// Close releases resources. The Claude client needs no explicit cleanup.
func (p *ClaudeProvider) Close() error {
	p.logger.Debug().Msg("Closing Claude provider")
	return nil
}
