package model

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestClassificationString tests the String method of Classification.
func TestClassificationString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		c        Classification
		expected string
	}{
		{NonUser, "non-user"},
		{Proactive, "proactive"},
		{Classification(42), "unknown"},
	}
	for _, tc := range testCases {
		if got := tc.c.String(); got != tc.expected {
			t.Errorf("got %q, expected %q", got, tc.expected)
		}
	}
}

// TestClassificationJSON tests JSON encoding of Classification.
func TestClassificationJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Proactive)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"proactive"` {
		t.Errorf("unexpected encoding %s", data)
	}

	var c Classification
	if err := json.Unmarshal([]byte(`"non-user"`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c != NonUser {
		t.Errorf("expected NonUser, got %v", c)
	}
	if err := json.Unmarshal([]byte(`"maybe"`), &c); err == nil {
		t.Error("expected error for unknown classification")
	}
}

// TestAnalysisResultJSON tests the wire shape of an analysis result.
func TestAnalysisResultJSON(t *testing.T) {
	t.Parallel()

	triggered := "https://a.example/financing"
	r := &AnalysisResult{
		SeedURL:        "https://a.example/",
		Classification: Proactive,
		Confidence:     0.55,
		MatchedKeywords: []MatchRecord{
			{Keyword: "quote now", OccurrenceCount: 1, IsHighConfidence: true},
			{Keyword: "get pricing", OccurrenceCount: 1},
		},
		CrawledPages: []string{"https://a.example/", triggered},
		TriggeredURL: &triggered,
		Outcome:      OutcomeFound,
		Pages: []PageResult{
			{URL: triggered, StatusCode: 200, NormalizedText: "quote now get pricing"},
		},
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"classification":"proactive"`, `"occurrence_count":1`, `"is_high_confidence":true`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
	if strings.Contains(out, "quote now get pricing") {
		t.Error("page text must not be serialized")
	}
}

// TestHighConfidenceMatches tests counting of high-confidence keywords.
func TestHighConfidenceMatches(t *testing.T) {
	t.Parallel()

	r := &AnalysisResult{
		MatchedKeywords: []MatchRecord{
			{Keyword: "financing", IsHighConfidence: true},
			{Keyword: "klarna", IsHighConfidence: true},
			{Keyword: "apply now"},
		},
	}
	if n := r.HighConfidenceMatches(); n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
	if r.IsProactive() {
		t.Error("zero-value classification must be NonUser")
	}
}
