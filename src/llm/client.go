package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"tradejournal/src/model"
)

// Analyzer asks an OpenAI-compatible chat endpoint for a qualitative
// review of one trade. Its single public method never fails: every
// internal error is converted into the neutral fallback before it can
// reach the aggregation layer.
type Analyzer struct {
	cfg  Config
	http *resty.Client
}

func NewAnalyzer(cfg Config) *Analyzer {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &Analyzer{
		cfg:  cfg,
		http: httpClient,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Analyze reviews one trade. On any failure (missing credentials,
// network, non-2xx, unparseable reply) it logs a warning and returns
// FallbackAnalysis().
func (a *Analyzer) Analyze(ctx context.Context, trade *model.Trade) model.ExternalAnalysis {
	log := logger.WithFields(map[string]interface{}{
		"component": "LLMAnalyzer",
		"op":        "Analyze",
		"trade_id":  trade.ID,
		"symbol":    trade.Symbol,
	})

	content, err := a.complete(ctx, BuildPrompt(trade))
	if err != nil {
		log.WithError(err).Warn("External analysis unavailable, using fallback")
		return FallbackAnalysis()
	}

	analysis, err := parseAnalysis(content)
	if err != nil {
		log.WithError(err).Warn("External analysis response unusable, using fallback")
		return FallbackAnalysis()
	}

	log.WithFields(map[string]interface{}{
		"mistakes": len(analysis.Mistakes),
		"rating":   analysis.OverallRating,
	}).Debug("External analysis completed")

	return analysis
}

// complete performs a single chat-completion attempt. The adapter makes
// no retries: one request per analysis, the fallback covers the rest.
func (a *Analyzer) complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(a.cfg.APIKey) == "" {
		return "", errors.New("no API key configured")
	}

	body := chatRequest{
		Model: a.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	}

	var out chatResponse
	resp, err := a.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&out).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if resp.IsError() {
		if out.Error != nil {
			return "", fmt.Errorf("chat completion http %d: %s", resp.StatusCode(), out.Error.Message)
		}
		return "", fmt.Errorf("chat completion http %d", resp.StatusCode())
	}

	if len(out.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// parseAnalysis decodes the model reply, tolerating prose around the
// JSON object, and clamps the scores into their documented ranges.
func parseAnalysis(content string) (model.ExternalAnalysis, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return model.ExternalAnalysis{}, err
	}

	var analysis model.ExternalAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return model.ExternalAnalysis{}, fmt.Errorf("decode analysis JSON: %w", err)
	}

	normalize(&analysis)
	return analysis, nil
}

func normalize(a *model.ExternalAnalysis) {
	a.OverallRating = clamp(a.OverallRating, 1, 10)
	a.EmotionalAnalysis.EmotionalScore = clamp(a.EmotionalAnalysis.EmotionalScore, 1, 10)

	if a.Mistakes == nil {
		a.Mistakes = []model.MistakeFinding{}
	}
	if a.Strengths == nil {
		a.Strengths = []model.Strength{}
	}
	if a.EmotionalAnalysis.DetectedEmotions == nil {
		a.EmotionalAnalysis.DetectedEmotions = []string{}
	}
	if a.EmotionalAnalysis.Suggestions == nil {
		a.EmotionalAnalysis.Suggestions = []string{}
	}
	if a.RiskAnalysis.Recommendations == nil {
		a.RiskAnalysis.Recommendations = []string{}
	}
	for i := range a.Mistakes {
		if a.Mistakes[i].Severity == "" {
			a.Mistakes[i].Severity = model.SeverityMedium
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
