package keyword

import "github.com/nao1215/offerscan/internal/model"

// defaultTaxonomy is the built-in keyword table in evaluation order.
// Phrases must be lowercase ASCII because they are compared against
// normalized text.
var defaultTaxonomy = []model.KeywordEntry{
	// Financing, high confidence
	{Phrase: "financing", Weight: model.WeightHighConfidence},
	{Phrase: "finance options", Weight: model.WeightHighConfidence},
	{Phrase: "payment plans", Weight: model.WeightHighConfidence},
	{Phrase: "buy now pay later", Weight: model.WeightHighConfidence},
	{Phrase: "afterpay", Weight: model.WeightHighConfidence},
	{Phrase: "klarna", Weight: model.WeightHighConfidence},
	{Phrase: "pay with affirm", Weight: model.WeightHighConfidence},
	{Phrase: "sezzle", Weight: model.WeightHighConfidence},
	{Phrase: "0% apr", Weight: model.WeightHighConfidence},
	{Phrase: "credit approval", Weight: model.WeightHighConfidence},
	{Phrase: "pre-approved", Weight: model.WeightHighConfidence},

	// Quoting, high confidence
	{Phrase: "quote now", Weight: model.WeightHighConfidence},
	{Phrase: "get a quote", Weight: model.WeightHighConfidence},
	{Phrase: "request a quote", Weight: model.WeightHighConfidence},

	// Financing, standard
	{Phrase: "apply now", Weight: model.WeightStandard},
	{Phrase: "monthly payments", Weight: model.WeightStandard},
	{Phrase: "low monthly", Weight: model.WeightStandard},
	{Phrase: "easy payments", Weight: model.WeightStandard},
	{Phrase: "payment options", Weight: model.WeightStandard},
	{Phrase: "installments", Weight: model.WeightStandard},
	{Phrase: "credit application", Weight: model.WeightStandard},
	{Phrase: "no credit check", Weight: model.WeightStandard},
	{Phrase: "lease to own", Weight: model.WeightStandard},
	{Phrase: "rent to own", Weight: model.WeightStandard},
	{Phrase: "pay over time", Weight: model.WeightStandard},
	{Phrase: "interest free", Weight: model.WeightStandard},

	// Quoting, standard
	{Phrase: "get pricing", Weight: model.WeightStandard},
	{Phrase: "request estimate", Weight: model.WeightStandard},
	{Phrase: "free estimate", Weight: model.WeightStandard},
	{Phrase: "instant quote", Weight: model.WeightStandard},
	{Phrase: "price quote", Weight: model.WeightStandard},
	{Phrase: "custom quote", Weight: model.WeightStandard},
	{Phrase: "contact for pricing", Weight: model.WeightStandard},
	{Phrase: "schedule a consultation", Weight: model.WeightStandard},
	{Phrase: "estimate request", Weight: model.WeightStandard},
}

// DefaultTaxonomy returns a copy of the built-in keyword table.
func DefaultTaxonomy() []model.KeywordEntry {
	out := make([]model.KeywordEntry, len(defaultTaxonomy))
	copy(out, defaultTaxonomy)
	return out
}
