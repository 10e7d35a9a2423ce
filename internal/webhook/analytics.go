package webhook

import "voiceagent-dashboard/internal/calls"

// Analytics are the outputs derived from the provider's optional analysis
// sub-object. Sentiment always has a value; intent and satisfaction may be
// nil.
type Analytics struct {
	Sentiment    calls.Sentiment
	Intent       *string
	Satisfaction *float64
}

// ExtractAnalytics derives sentiment, intent and a satisfaction score from a
// possibly-absent analysis object. Each output has its own fallback chain;
// numeric success-evaluation thresholds stand in when explicit labels are
// missing.
func ExtractAnalytics(analysis map[string]any) Analytics {
	out := Analytics{Sentiment: calls.SentimentNeutral}
	if analysis == nil {
		return out
	}

	structured := mapAt(analysis, "structuredData")
	success := mapAt(analysis, "successEvaluation")

	out.Sentiment = extractSentiment(analysis, structured, success)
	out.Intent = extractIntent(analysis, structured)
	out.Satisfaction = extractSatisfaction(analysis, structured, success)
	return out
}

func extractSentiment(analysis, structured, success map[string]any) calls.Sentiment {
	if s, ok := calls.ParseSentiment(stringAt(analysis, "sentiment")); ok {
		return s
	}
	if s, ok := calls.ParseSentiment(stringAt(structured, "sentiment")); ok {
		return s
	}
	if score, ok := floatAt(success, "score"); ok {
		switch {
		case score > 7:
			return calls.SentimentPositive
		case score < 4:
			return calls.SentimentNegative
		}
	}
	return calls.SentimentNeutral
}

func extractIntent(analysis, structured map[string]any) *string {
	for _, v := range []string{
		stringAt(analysis, "intent"),
		stringAt(structured, "intent"),
		stringAt(structured, "category"),
	} {
		if v != "" {
			return &v
		}
	}
	return nil
}

func extractSatisfaction(analysis, structured, success map[string]any) *float64 {
	if v, ok := floatAt(analysis, "satisfaction"); ok {
		return &v
	}
	if v, ok := floatAt(success, "score"); ok {
		return &v
	}
	if v, ok := floatAt(structured, "satisfaction"); ok {
		return &v
	}
	return nil
}
