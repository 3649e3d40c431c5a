package model

// Weight is the evidential strength of a keyword.
//
// Design decision: We use a two-level enum rather than a free-form float
// on each entry because the taxonomy is authored by hand and two tiers are
// easy to review. The numeric contribution of each tier is a scorer setting.
type Weight int

const (
	// WeightStandard marks a phrase that hints at financing or quoting
	// but is common enough to appear incidentally.
	WeightStandard Weight = iota

	// WeightHighConfidence marks a phrase whose presence alone strongly
	// implies the site advertises financing or quotes.
	WeightHighConfidence
)

// String returns a human-readable representation of the weight.
func (w Weight) String() string {
	switch w {
	case WeightStandard:
		return "standard"
	case WeightHighConfidence:
		return "high"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (w Weight) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// KeywordEntry is one phrase of the keyword taxonomy.
// Phrases are plain lowercase ASCII and are matched literally.
type KeywordEntry struct {
	// Phrase is the literal text searched for in normalized page text.
	Phrase string `json:"phrase"`

	// Weight determines the score contribution per occurrence.
	Weight Weight `json:"weight"`
}

// IsHighConfidence reports whether the entry is a high-confidence keyword.
func (k KeywordEntry) IsHighConfidence() bool {
	return k.Weight == WeightHighConfidence
}
