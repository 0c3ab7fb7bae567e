package recall

import (
	"strings"
	"time"
)

// Record is one food-enforcement entry as published by openFDA.
// Fields are free text and any of them may be absent; accessors below
// substitute placeholders so downstream rendering never fails.
//
// ReportDate uses the API's canonical "YYYYMMDD" form. The zero-padded
// fixed width makes lexicographic comparison equivalent to date order,
// which the novelty detector relies on.
type Record struct {
	ReportDate          string `json:"report_date"`
	ProductDescription  string `json:"product_description"`
	ReasonForRecall     string `json:"reason_for_recall"`
	RecallingFirm       string `json:"recalling_firm"`
	DistributionPattern string `json:"distribution_pattern"`
	Classification      string `json:"classification"`
}

const (
	PlaceholderProduct        = "Unknown product"
	PlaceholderReason         = "Unknown reason"
	PlaceholderFirm           = "Unknown company"
	PlaceholderDistribution   = "Unspecified distribution"
	PlaceholderClassification = "Unclassified"
)

func orPlaceholder(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func (r Record) Product() string { return orPlaceholder(r.ProductDescription, PlaceholderProduct) }
func (r Record) Reason() string { return orPlaceholder(r.ReasonForRecall, PlaceholderReason) }
func (r Record) Firm() string { return orPlaceholder(r.RecallingFirm, PlaceholderFirm) }
func (r Record) Distribution() string { return orPlaceholder(r.DistributionPattern, PlaceholderDistribution) }
func (r Record) RegulatoryClass() string {
	return orPlaceholder(r.Classification, PlaceholderClassification)
}

// DisplayDate renders the report date as "January 2, 2006".
// Missing or unparsable dates come back as "Recent" rather than an error.
func (r Record) DisplayDate() string {
	t, err := time.Parse("20060102", strings.TrimSpace(r.ReportDate))
	if err != nil {
		return "Recent"
	}
	return t.Format("January 2, 2006")
}

// Result is the full derived classification of a record. It is recomputed
// on demand and never cached; two calls on the same record always agree.
type Result struct {
	Type      Type
	Allergens []Allergen
	Regions   []string
	Priority  Priority
}

// Classify derives every categorical tag for a record in one pass.
func Classify(r Record) Result {
	return Result{
		Type:      ClassifyType(r.ReasonForRecall),
		Allergens: ClassifyAllergens(r.ReasonForRecall),
		Regions:   ExtractRegions(r.DistributionPattern),
		Priority:  DeterminePriority(r),
	}
}
