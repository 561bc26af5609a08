package llm

import (
	"fmt"
	"strings"

	"tradejournal/src/model"
)

const analysisSchema = `{
  "mistakes": [{"id": "string", "category": "string", "description": "string", "severity": "low|medium|high", "suggestion": "string"}],
  "strengths": [{"aspect": "string", "description": "string", "recommendation": "string"}],
  "emotional_analysis": {"detected_emotions": ["string"], "emotional_score": 1, "impact": "string", "suggestions": ["string"]},
  "risk_analysis": {"risk_reward_ratio": 0.0, "position_sizing": "string", "stop_loss_quality": "string", "recommendations": ["string"]},
  "overall_rating": 1,
  "summary": "string"
}`

const systemPrompt = "You are an experienced trading coach reviewing journal entries. " +
	"Respond ONLY with a single JSON object matching the schema. No markdown, no commentary."

// BuildPrompt renders the structured trade description sent to the
// model together with the required response schema.
func BuildPrompt(trade *model.Trade) string {
	var b strings.Builder

	b.WriteString("Analyze the following trade and answer with JSON matching this schema:\n")
	b.WriteString(analysisSchema)
	b.WriteString("\n\nTrade:\n")

	fmt.Fprintf(&b, "- Symbol: %s (%s)\n", trade.Symbol, orDash(trade.AssetType))
	fmt.Fprintf(&b, "- Direction: %s\n", trade.Direction)
	fmt.Fprintf(&b, "- Entry price: %g\n", trade.EntryPrice)
	fmt.Fprintf(&b, "- Exit price: %s\n", floatOrDash(trade.ExitPrice))
	fmt.Fprintf(&b, "- Stop-loss: %s\n", floatOrDash(trade.StopLoss))
	fmt.Fprintf(&b, "- Target: %s\n", floatOrDash(trade.Target))
	fmt.Fprintf(&b, "- Quantity: %g\n", trade.Quantity)
	fmt.Fprintf(&b, "- Position size: %g\n", trade.PositionSize)
	fmt.Fprintf(&b, "- Realized P&L: %s (%s%%)\n", floatOrDash(trade.Pnl), floatOrDash(trade.PnlPercentage))
	fmt.Fprintf(&b, "- Status: %s\n", trade.Status)
	fmt.Fprintf(&b, "- Timeframe: %s\n", orDash(trade.Timeframe))
	fmt.Fprintf(&b, "- Setup: %s\n", orDash(trade.Setup))
	fmt.Fprintf(&b, "- Reason: %s\n", orDash(trade.Reason))
	fmt.Fprintf(&b, "- Emotions: %s\n", listOrDash(trade.EmotionTags))
	fmt.Fprintf(&b, "- Categories: %s\n", listOrDash(trade.CategoryTags))

	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func floatOrDash(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}

func listOrDash(vals []string) string {
	if len(vals) == 0 {
		return "-"
	}
	return strings.Join(vals, ", ")
}

// extractJSON pulls the first balanced {...} block out of a model reply,
// tolerating prose or markdown fences around it. Braces inside string
// literals are skipped.
func extractJSON(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object in response")
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unbalanced JSON object in response")
}
