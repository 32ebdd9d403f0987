package insights

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildUserMessage(t *testing.T) {
	got := BuildUserMessage("AAPL", "2025-01-01", []string{"great outlook", "bad guidance"}, 0.0, 2)

	want := "ASSET: AAPL\n" +
		"DATE: 2025-01-01\n" +
		"ITEMS (most recent first):\n" +
		"- bad guidance\n" +
		"- great outlook\n" +
		"Sentiment stats (precomputed): avg=0.00, n=2\n"
	assert.Equal(t, want, got)
}

func TestBuildUserMessage_FormatsAverage(t *testing.T) {
	got := BuildUserMessage("NVDA", "2025-03-04", []string{"x"}, 0.4567, 1)
	assert.Contains(t, got, "avg=0.46, n=1")

	got = BuildUserMessage("NVDA", "2025-03-04", []string{"x"}, -0.125, 7)
	assert.Contains(t, got, "avg=-0.12, n=7")
}

func TestBuildUserMessage_Deterministic(t *testing.T) {
	texts := []string{"one", "two", "three"}
	assert.Equal(t,
		BuildUserMessage("A", "2025-01-01", texts, 0.1, 3),
		BuildUserMessage("A", "2025-01-01", texts, 0.1, 3))
	assert.Equal(t, []string{"one", "two", "three"}, texts, "caller slice untouched")
}

func TestBuildUserMessage_NoTexts(t *testing.T) {
	got := BuildUserMessage("A", "2025-01-01", nil, 0, 0)
	assert.Equal(t, "ASSET: A\nDATE: 2025-01-01\nITEMS (most recent first):\n\nSentiment stats (precomputed): avg=0.00, n=0\n", got)
}

func TestSystemPrompt_Contract(t *testing.T) {
	for _, want := range []string{
		"concise, factual, and neutral",
		"Do not invent data",
		"do not give investment advice",
		"themes, drivers, and risks",
		"uncertainty",
		"Output JSON only",
		`"summary"`, `"drivers"`, `"risks"`, `"tone"`, `"confidence"`, `"method"`,
	} {
		assert.True(t, strings.Contains(SystemPrompt, want), "system prompt should mention %q", want)
	}
}
