package verdict

import (
	"encoding/json"
	"testing"
)

func TestFormatConfidence(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0, "0.00%"},
		{0.875, "87.50%"},
		{0.8523, "85.23%"},
		{1, "100.00%"},
	}
	for _, c := range cases {
		if got := FormatConfidence(c.score); got != c.want {
			t.Errorf("FormatConfidence(%v) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestFormatConfidencePercentClamps(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{-3, "0.00%"},
		{0, "0.00%"},
		{18.3, "18.30%"},
		{100, "100.00%"},
		{240, "100.00%"},
	}
	for _, c := range cases {
		if got := FormatConfidencePercent(c.pct); got != c.want {
			t.Errorf("FormatConfidencePercent(%v) = %q, want %q", c.pct, got, c.want)
		}
	}
}

func TestWireFlattensAnalysis(t *testing.T) {
	r := AnalysisResult{
		Verdict:         VerdictFake,
		ConfidenceScore: "87.50%",
		Analysis:        []string{"header", "line one", "line two"},
	}

	raw, err := json.Marshal(r.Wire())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded["verdict"] != "FAKE" {
		t.Errorf("verdict = %q, want FAKE", decoded["verdict"])
	}
	if decoded["confidence_score"] != "87.50%" {
		t.Errorf("confidence_score = %q", decoded["confidence_score"])
	}
	if decoded["analysis"] != "header\nline one\nline two" {
		t.Errorf("analysis = %q", decoded["analysis"])
	}
}
