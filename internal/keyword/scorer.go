package keyword

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nao1215/offerscan/internal/model"
)

// Default scoring parameters.
const (
	// DefaultHighWeight is the score contribution of one high-confidence occurrence.
	DefaultHighWeight = 0.4

	// DefaultStandardWeight is the score contribution of one standard occurrence.
	DefaultStandardWeight = 0.15

	// DefaultThreshold is the number of distinct matched keywords that makes
	// a positive classification under PolicyThreshold.
	DefaultThreshold = 2
)

// Scorer scans normalized text against a weighted keyword taxonomy.
// A Scorer is immutable after construction and safe for concurrent use.
type Scorer struct {
	entries        []model.KeywordEntry
	patterns       []*regexp.Regexp
	highWeight     float64
	standardWeight float64
	threshold      int
	policy         Policy
	mode           MatchMode
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithTaxonomy replaces the built-in keyword table.
// The slice is copied; phrases are expected to be normalized already.
func WithTaxonomy(entries []model.KeywordEntry) Option {
	return func(s *Scorer) {
		s.entries = make([]model.KeywordEntry, len(entries))
		copy(s.entries, entries)
	}
}

// WithWeights sets the per-occurrence contribution of each weight tier.
func WithWeights(high, standard float64) Option {
	return func(s *Scorer) {
		s.highWeight = high
		s.standardWeight = standard
	}
}

// WithThreshold sets the distinct-match count required by PolicyThreshold.
func WithThreshold(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.threshold = n
		}
	}
}

// WithPolicy sets the classification policy.
func WithPolicy(p Policy) Option {
	return func(s *Scorer) {
		s.policy = p
	}
}

// WithMatchMode sets how occurrences are counted.
func WithMatchMode(m MatchMode) Option {
	return func(s *Scorer) {
		s.mode = m
	}
}

// NewScorer creates a Scorer over the default taxonomy with the threshold
// policy and substring matching unless overridden.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		entries:        defaultTaxonomy,
		highWeight:     DefaultHighWeight,
		standardWeight: DefaultStandardWeight,
		threshold:      DefaultThreshold,
		policy:         PolicyThreshold,
		mode:           MatchSubstring,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.mode == MatchWordBoundary {
		s.patterns = make([]*regexp.Regexp, len(s.entries))
		for i, e := range s.entries {
			s.patterns[i] = boundedPattern(e.Phrase)
		}
	}

	return s
}

// boundedPattern compiles a literal phrase with word-boundary anchors on
// each side that starts or ends with a word character.
func boundedPattern(phrase string) *regexp.Regexp {
	expr := regexp.QuoteMeta(phrase)
	if r, _ := utf8.DecodeRuneInString(phrase); isWordRune(r) {
		expr = `\b` + expr
	}
	if r, _ := utf8.DecodeLastRuneInString(phrase); isWordRune(r) {
		expr += `\b`
	}
	return regexp.MustCompile(expr)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Evaluation is the outcome of scoring one piece of text.
type Evaluation struct {
	// Matches lists matched keywords in taxonomy order.
	Matches []model.MatchRecord

	// Confidence is the weighted score clamped to [0, 1].
	Confidence float64

	// Classification applies the scorer's policy to Matches.
	Classification model.Classification
}

// Evaluate scores normalized text and classifies the result.
func (s *Scorer) Evaluate(text string) Evaluation {
	matches := s.Match(text)
	return Evaluation{
		Matches:        matches,
		Confidence:     s.Confidence(matches),
		Classification: s.Classify(matches),
	}
}

// Match returns one MatchRecord per keyword occurring in text, in taxonomy
// order. Text must already be normalized; the search is case-sensitive.
func (s *Scorer) Match(text string) []model.MatchRecord {
	matches := make([]model.MatchRecord, 0)
	if text == "" {
		return matches
	}

	for i, e := range s.entries {
		n := s.count(i, e.Phrase, text)
		if n == 0 {
			continue
		}
		matches = append(matches, model.MatchRecord{
			Keyword:          e.Phrase,
			OccurrenceCount:  n,
			IsHighConfidence: e.IsHighConfidence(),
		})
	}
	return matches
}

// count returns the number of non-overlapping occurrences of entry i.
func (s *Scorer) count(i int, phrase, text string) int {
	if phrase == "" {
		return 0
	}
	if s.mode == MatchWordBoundary {
		return len(s.patterns[i].FindAllStringIndex(text, -1))
	}
	return strings.Count(text, phrase)
}

// RawScore sums weight times occurrence count over matches without clamping.
func (s *Scorer) RawScore(matches []model.MatchRecord) float64 {
	var score float64
	for _, m := range matches {
		w := s.standardWeight
		if m.IsHighConfidence {
			w = s.highWeight
		}
		score += w * float64(m.OccurrenceCount)
	}
	return score
}

// Confidence returns RawScore clamped to [0, 1].
func (s *Scorer) Confidence(matches []model.MatchRecord) float64 {
	return clamp(s.RawScore(matches))
}

// Classify applies the scorer's policy to a match set.
func (s *Scorer) Classify(matches []model.MatchRecord) model.Classification {
	if len(matches) == 0 {
		return model.NonUser
	}
	if s.policy == PolicyImmediate {
		return model.Proactive
	}
	for _, m := range matches {
		if m.IsHighConfidence {
			return model.Proactive
		}
	}
	if len(matches) >= s.threshold {
		return model.Proactive
	}
	return model.NonUser
}

// Policy returns the configured classification policy.
func (s *Scorer) Policy() Policy {
	return s.policy
}

// Threshold returns the configured distinct-match threshold.
func (s *Scorer) Threshold() int {
	return s.threshold
}

// Taxonomy returns a copy of the keyword table in use.
func (s *Scorer) Taxonomy() []model.KeywordEntry {
	out := make([]model.KeywordEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Merge combines match sets, summing occurrence counts per keyword.
// The result keeps first-encounter order across the inputs.
func Merge(sets ...[]model.MatchRecord) []model.MatchRecord {
	out := make([]model.MatchRecord, 0)
	index := make(map[string]int)
	for _, set := range sets {
		for _, m := range set {
			if i, ok := index[m.Keyword]; ok {
				out[i].OccurrenceCount += m.OccurrenceCount
				continue
			}
			index[m.Keyword] = len(out)
			out = append(out, m)
		}
	}
	return out
}

func clamp(v float64) float64 {
	return min(max(v, 0), 1)
}
