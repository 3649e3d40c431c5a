package keyword

import (
	"fmt"
	"strings"
)

// Policy decides when a set of matches is a positive classification.
type Policy int

const (
	// PolicyThreshold is positive when at least one high-confidence keyword
	// matched, or when the number of distinct matched keywords reaches the
	// scorer's threshold.
	PolicyThreshold Policy = iota

	// PolicyImmediate is positive for any non-empty match set.
	PolicyImmediate
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyThreshold:
		return "threshold"
	case PolicyImmediate:
		return "immediate"
	default:
		return "unknown"
	}
}

// ParsePolicy converts a configuration name into a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "threshold":
		return PolicyThreshold, nil
	case "immediate":
		return PolicyImmediate, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// MatchMode controls how phrase occurrences are counted.
type MatchMode int

const (
	// MatchSubstring counts non-overlapping substring occurrences with no
	// word-boundary check.
	MatchSubstring MatchMode = iota

	// MatchWordBoundary only counts occurrences delimited by non-word
	// characters or text edges.
	MatchWordBoundary
)

// String returns the configuration name of the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchSubstring:
		return "substring"
	case MatchWordBoundary:
		return "word"
	default:
		return "unknown"
	}
}

// ParseMatchMode converts a configuration name into a MatchMode.
func ParseMatchMode(name string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "substring":
		return MatchSubstring, nil
	case "word":
		return MatchWordBoundary, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMatchMode, name)
	}
}
