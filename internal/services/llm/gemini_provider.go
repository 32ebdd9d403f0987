package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/spectorr/internal/common"
)

// GeminiProvider generates content with the Google Gemini API
type GeminiProvider struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	timeout time.Duration
}

// NewGeminiProvider creates a Gemini provider
func NewGeminiProvider(ctx context.Context, config *common.GeminiConfig, logger arbor.ILogger) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required for Gemini provider (set via GEMINI_API_KEY, SPECTORR_GEMINI_API_KEY, or gemini.api_key in config)")
	}

	timeout, err := common.ParseTimeout(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logger.Debug().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Float32("temperature", config.Temperature).
		Int("max_tokens", config.MaxTokens).
		Msg("Gemini provider initialized")

	return &GeminiProvider{
		config:  config,
		logger:  logger,
		client:  client,
		timeout: timeout,
	}, nil
}

// convertMessagesToGemini converts messages to Gemini contents.
// System messages are returned separately for the SystemInstruction config.
func convertMessagesToGemini(messages []Message) ([]*genai.Content, string, error) {
	if err := validateMessages(messages); err != nil {
		return nil, "", err
	}

	contents := make([]*genai.Content, 0, len(messages))
	var systemText string
	for _, msg := range messages {
		if msg.Role == "system" {
			if systemText == "" {
				systemText = msg.Content
			}
			continue
		}

		var geminiRole string
		switch msg.Role {
		case "assistant":
			geminiRole = genai.RoleModel
		default:
			geminiRole = genai.RoleUser
		}

		contents = append(contents, &genai.Content{
			Role:  geminiRole,
			Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
		})
	}

	return contents, systemText, nil
}

// GenerateContent issues one GenerateContent call bounded by the configured timeout
func (p *GeminiProvider) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	contents, systemText, err := convertMessagesToGemini(request.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages to Gemini format: %w", err)
	}
	if request.SystemInstruction != "" {
		systemText = request.SystemInstruction
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(p.config.Temperature),
		MaxOutputTokens: int32(p.config.MaxTokens),
	}
	if systemText != "" {
		config.SystemInstruction = genai.NewContentFromText(systemText, genai.RoleUser)
	}
	if request.JSONOutput {
		config.ResponseMIMEType = "application/json"
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.Models.GenerateContent(timeoutCtx, p.config.Model, contents, config)
	if err != nil {
		return nil, &ExternalServiceError{Provider: ProviderGemini, Model: p.config.Model, Err: err}
	}

	out := &ContentResponse{
		Provider: ProviderGemini,
		Model:    p.config.Model,
	}
	if resp != nil {
		out.Text = resp.Text()
		if resp.UsageMetadata != nil {
			out.Usage = &Usage{
				InputTokens:  int64(resp.UsageMetadata.PromptTokenCount),
				OutputTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
			}
		}
	}
	return out, nil
}

func (p *GeminiProvider) GetProviderType() ProviderType {
	return ProviderGemini
}

func (p *GeminiProvider) GetModel() string {
	return p.config.Model
}

func (p *GeminiProvider) Close() error {
	p.logger.Debug().Msg("Closing Gemini provider")
	p.client = nil
	return nil
}
