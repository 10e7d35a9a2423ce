package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceagent-dashboard/internal/calls"
)

func TestExtractAnalyticsNilAnalysis(t *testing.T) {
	a := ExtractAnalytics(nil)
	assert.Equal(t, calls.SentimentNeutral, a.Sentiment)
	assert.Nil(t, a.Intent)
	assert.Nil(t, a.Satisfaction)
}

func TestSentimentExplicitLabelWins(t *testing.T) {
	a := ExtractAnalytics(map[string]any{
		"sentiment":         "negative",
		"successEvaluation": map[string]any{"score": float64(10)},
	})
	assert.Equal(t, calls.SentimentNegative, a.Sentiment)
}

func TestSentimentFromStructuredData(t *testing.T) {
	a := ExtractAnalytics(map[string]any{
		"structuredData": map[string]any{"sentiment": "positive"},
	})
	assert.Equal(t, calls.SentimentPositive, a.Sentiment)
}

func TestSentimentScoreThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  calls.Sentiment
	}{
		{9, calls.SentimentPositive},
		{8, calls.SentimentPositive},
		{7, calls.SentimentNeutral},
		{5, calls.SentimentNeutral},
		{4, calls.SentimentNeutral},
		{2, calls.SentimentNegative},
	}
	for _, tt := range tests {
		a := ExtractAnalytics(map[string]any{
			"successEvaluation": map[string]any{"score": tt.score},
		})
		assert.Equal(t, tt.want, a.Sentiment, "score %v", tt.score)
	}
}

func TestIntentFallbackChain(t *testing.T) {
	a := ExtractAnalytics(map[string]any{"intent": "book-appointment"})
	require.NotNil(t, a.Intent)
	assert.Equal(t, "book-appointment", *a.Intent)

	a = ExtractAnalytics(map[string]any{
		"structuredData": map[string]any{"intent": "support"},
	})
	require.NotNil(t, a.Intent)
	assert.Equal(t, "support", *a.Intent)

	a = ExtractAnalytics(map[string]any{
		"structuredData": map[string]any{"category": "billing"},
	})
	require.NotNil(t, a.Intent)
	assert.Equal(t, "billing", *a.Intent)
}

func TestSatisfactionFallbackChain(t *testing.T) {
	a := ExtractAnalytics(map[string]any{
		"satisfaction":      float64(4.5),
		"successEvaluation": map[string]any{"score": float64(9)},
	})
	require.NotNil(t, a.Satisfaction)
	assert.Equal(t, 4.5, *a.Satisfaction)

	a = ExtractAnalytics(map[string]any{
		"successEvaluation": map[string]any{"score": float64(9)},
	})
	require.NotNil(t, a.Satisfaction)
	assert.Equal(t, float64(9), *a.Satisfaction)

	a = ExtractAnalytics(map[string]any{
		"structuredData": map[string]any{"satisfaction": float64(3)},
	})
	require.NotNil(t, a.Satisfaction)
	assert.Equal(t, float64(3), *a.Satisfaction)
}

func TestSatisfactionScoreAsString(t *testing.T) {
	a := ExtractAnalytics(map[string]any{
		"successEvaluation": map[string]any{"score": "8"},
	})
	require.NotNil(t, a.Satisfaction)
	assert.Equal(t, float64(8), *a.Satisfaction)
	assert.Equal(t, calls.SentimentPositive, a.Sentiment)
}
