package calls

import "testing"

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"queued", StatusQueued, true},
		{"ringing", StatusRinging, true},
		{"in-progress", StatusInProgress, true},
		{"ended", StatusEnded, true},
		{"failed", StatusFailed, true},
		{"forwarding", StatusInProgress, true},
		{"", "", false},
		{"nonsense", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseStatus(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseStatus(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseSentiment(t *testing.T) {
	if s, ok := ParseSentiment("positive"); !ok || s != SentimentPositive {
		t.Fatalf("expected positive, got %q %v", s, ok)
	}
	if _, ok := ParseSentiment("meh"); ok {
		t.Fatalf("expected unknown sentiment to be rejected")
	}
}
