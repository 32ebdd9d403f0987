package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ternarybob/spectorr/internal/models"
)

// Fallback values used when the model reply cannot be decoded
const (
	FallbackTone       = models.ToneMixed
	FallbackConfidence = 0.4
	FallbackSummaryMax = 1000 // characters
)

// ParseOutcome is the tagged result of decoding a model reply: Parsed or Malformed
type ParseOutcome interface {
	isParseOutcome()
}

// Parsed holds a reply that decoded into a valid insight body
type Parsed struct {
	Body models.InsightBody
}

// Malformed holds a reply that could not be used as structured data
type Malformed struct {
	Raw string
	Err error
}

func (Parsed) isParseOutcome()    {}
func (Malformed) isParseOutcome() {}

var bodyValidator = validator.New()

// ParseResponse strictly decodes raw model output. It never panics and never
// returns an error: anything unusable becomes Malformed.
func ParseResponse(raw string) ParseOutcome {
	candidate := extractJSON(raw)

	var body models.InsightBody
	dec := json.NewDecoder(bytes.NewReader([]byte(candidate)))
	if err := dec.Decode(&body); err != nil {
		return Malformed{Raw: raw, Err: fmt.Errorf("failed to decode JSON: %w", err)}
	}
	if dec.More() {
		return Malformed{Raw: raw, Err: fmt.Errorf("unexpected data after JSON object")}
	}
	if err := bodyValidator.Struct(&body); err != nil {
		return Malformed{Raw: raw, Err: fmt.Errorf("invalid insight body: %w", err)}
	}

	if body.Drivers == nil {
		body.Drivers = []string{}
	}
	if body.Risks == nil {
		body.Risks = []string{}
	}
	body.Method = models.MethodModel
	return Parsed{Body: body}
}

// FallbackBody builds the degraded insight for an unusable reply
func FallbackBody(raw string) models.InsightBody {
	return models.InsightBody{
		Summary:    truncateRunes(strings.TrimSpace(raw), FallbackSummaryMax),
		Drivers:    []string{},
		Risks:      []string{},
		Tone:       FallbackTone,
		Confidence: FallbackConfidence,
		Method:     models.MethodFallback,
	}
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// extractJSON extracts the JSON object from a reply, handling markdown code fences
// and prose around the object.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```") {
		lines := strings.Split(response, "\n")
		var jsonLines []string
		inCodeBlock := false

		for _, line := range lines {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				if inCodeBlock {
					break
				}
				inCodeBlock = true
				continue
			}
			if inCodeBlock {
				jsonLines = append(jsonLines, line)
			}
		}

		if len(jsonLines) > 0 {
			response = strings.TrimSpace(strings.Join(jsonLines, "\n"))
		}
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start >= 0 && end > start {
		return response[start : end+1]
	}

	return response
}
