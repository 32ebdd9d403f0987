package insights

import (
	"fmt"
	"strings"
)

// SystemPrompt accompanies every summarisation request
const SystemPrompt = `You are an assistant for a portfolio manager at a financial institution.
Task: Summarize daily sentiment signals for a single asset from short notes and feedback.
Constraints:
- Be concise, factual, and neutral; avoid speculation.
- Do not invent data or prices; do not give investment advice.
- Extract themes, drivers, and risks; highlight uncertainty clearly.
- Output JSON only with keys:
  { "summary": str, "drivers": [str], "risks": [str], "tone": "positive|neutral|negative|mixed",
    "confidence": 0..1, "method": "model" }
`

// BuildUserMessage renders the per-group request.
// texts must be oldest first; they are listed most recent first.
func BuildUserMessage(assetID, dateStr string, texts []string, avg float64, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ASSET: %s\n", assetID)
	fmt.Fprintf(&b, "DATE: %s\n", dateStr)
	b.WriteString("ITEMS (most recent first):\n")
	for i := len(texts) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "- %s", texts[i])
		if i > 0 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Sentiment stats (precomputed): avg=%.2f, n=%d\n", avg, n)
	return b.String()
}
