package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tradejournal/src/model"
)

const sampleAnalysisJSON = `{
  "mistakes": [{"id": "m1", "category": "risk-management", "description": "stop too wide", "severity": "medium", "suggestion": "tighten stop"}],
  "strengths": [{"aspect": "patience", "description": "waited for confirmation", "recommendation": "keep doing this"}],
  "emotional_analysis": {"detected_emotions": ["confidence"], "emotional_score": 7, "impact": "minor", "suggestions": []},
  "risk_analysis": {"risk_reward_ratio": 2.1, "position_sizing": "appropriate", "stop_loss_quality": "good", "recommendations": []},
  "overall_rating": 8,
  "summary": "Solid, well planned trade."
}`

func TestAnalyzeParsesWrappedJSON(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "Here is my assessment:\n```json\n"+sampleAnalysisJSON+"\n```\nHope this helps!")
	defer srv.Close()

	analyzer := newTestAnalyzer(srv.URL)
	got := analyzer.Analyze(context.Background(), sampleTrade())

	assert.Equal(t, 8, got.OverallRating)
	assert.Equal(t, "Solid, well planned trade.", got.Summary)
	assert.Len(t, got.Mistakes, 1)
	assert.Equal(t, "stop too wide", got.Mistakes[0].Description)
	assert.Equal(t, 7, got.EmotionalAnalysis.EmotionalScore)
	assert.InDelta(t, 2.1, got.RiskAnalysis.RiskRewardRatio, 0.001)
}

func TestAnalyzeFallsBackOnHTTPError(t *testing.T) {
	srv := chatServer(t, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`)
	defer srv.Close()

	analyzer := newTestAnalyzer(srv.URL)
	got := analyzer.Analyze(context.Background(), sampleTrade())

	assertFallback(t, got)
}

func TestAnalyzeFallsBackOnUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // port now refuses connections

	analyzer := newTestAnalyzer(srv.URL)
	got := analyzer.Analyze(context.Background(), sampleTrade())

	assertFallback(t, got)
}

func TestAnalyzeFallsBackOnMalformedJSON(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "I think the trade went { pretty well overall")
	defer srv.Close()

	analyzer := newTestAnalyzer(srv.URL)
	got := analyzer.Analyze(context.Background(), sampleTrade())

	assertFallback(t, got)
}

func TestAnalyzeFallsBackOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := Config{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model", Timeout: 50 * time.Millisecond}
	analyzer := NewAnalyzer(cfg)
	got := analyzer.Analyze(context.Background(), sampleTrade())

	assertFallback(t, got)
}

func TestAnalyzeFallsBackWithoutAPIKey(t *testing.T) {
	analyzer := NewAnalyzer(Config{BaseURL: "http://localhost:1", Timeout: time.Second})
	got := analyzer.Analyze(context.Background(), sampleTrade())

	assertFallback(t, got)
}

func TestAnalyzeClampsOutOfRangeScores(t *testing.T) {
	body := `{"mistakes": null, "strengths": null,
		"emotional_analysis": {"detected_emotions": null, "emotional_score": 42, "impact": "", "suggestions": null},
		"risk_analysis": {"risk_reward_ratio": 1.0, "position_sizing": "", "stop_loss_quality": "", "recommendations": null},
		"overall_rating": -3, "summary": "weird"}`
	srv := chatServer(t, http.StatusOK, body)
	defer srv.Close()

	analyzer := newTestAnalyzer(srv.URL)
	got := analyzer.Analyze(context.Background(), sampleTrade())

	assert.Equal(t, 1, got.OverallRating)
	assert.Equal(t, 10, got.EmotionalAnalysis.EmotionalScore)
	assert.NotNil(t, got.Mistakes)
	assert.NotNil(t, got.Strengths)
	assert.NotNil(t, got.RiskAnalysis.Recommendations)
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, false},
		{"prose around", `sure thing {"a":1} done`, `{"a":1}`, false},
		{"nested objects", `x {"a":{"b":2}} y`, `{"a":{"b":2}}`, false},
		{"braces in strings", `{"a":"{not a block}"}`, `{"a":"{not a block}"}`, false},
		{"escaped quote", `{"a":"say \"{hi}\""}`, `{"a":"say \"{hi}\""}`, false},
		{"no object", "nothing here", "", true},
		{"unbalanced", `{"a":1`, "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractJSON(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("extractJSON = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildPromptIncludesTradeFields(t *testing.T) {
	trade := sampleTrade()
	prompt := BuildPrompt(trade)

	for _, fragment := range []string{"TSLA", "short", "Entry price: 250", "Stop-loss: 260", "overall_rating"} {
		assert.Contains(t, prompt, fragment)
	}
}

func assertFallback(t *testing.T, got model.ExternalAnalysis) {
	t.Helper()
	if got.Summary != FallbackSummary {
		t.Fatalf("summary = %q, want fallback summary", got.Summary)
	}
	if got.OverallRating != 5 || got.EmotionalAnalysis.EmotionalScore != 5 {
		t.Fatalf("expected neutral scores, got rating=%d emotional=%d", got.OverallRating, got.EmotionalAnalysis.EmotionalScore)
	}
	if got.RiskAnalysis.RiskRewardRatio != 0 {
		t.Fatalf("expected zero risk/reward, got %v", got.RiskAnalysis.RiskRewardRatio)
	}
	if len(got.Mistakes) != 0 || len(got.Strengths) != 0 {
		t.Fatalf("expected empty mistakes/strengths, got %+v", got)
	}
}

// chatServer returns a stub chat-completions endpoint that wraps content
// into the OpenAI response envelope (or returns it raw on errors).
func chatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing auth header")
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)

		if status != http.StatusOK {
			fmt.Fprint(w, content)
			return
		}

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
}

func newTestAnalyzer(baseURL string) *Analyzer {
	return NewAnalyzer(Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "test-model",
		Timeout: 2 * time.Second,
	})
}

func sampleTrade() *model.Trade {
	exit := 240.0
	stop := 260.0
	target := 230.0
	pnl := 50.0
	pct := 10.0

	return &model.Trade{
		ID:            7,
		UserID:        1,
		Symbol:        "TSLA",
		AssetType:     "stock",
		Direction:     model.DirectionShort,
		EntryPrice:    250,
		ExitPrice:     &exit,
		StopLoss:      &stop,
		Target:        &target,
		Quantity:      5,
		PositionSize:  500,
		Pnl:           &pnl,
		PnlPercentage: &pct,
		Status:        model.TradeStatusWin,
		EntryTime:     time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC),
		Reason:        "breakdown of support",
	}
}
