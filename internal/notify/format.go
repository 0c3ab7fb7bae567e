package notify

import (
	"html"
	"strings"

	"recallbot/internal/recall"
)

// ReferenceURL is the fixed "more info" link attached to every alert.
const ReferenceURL = "https://www.fda.gov/safety/recalls-market-withdrawals-safety-alerts"

// DefaultMaxFieldLen bounds product and reason text in rendered alerts.
const DefaultMaxFieldLen = 1000

// Payload is one rendered notification: a rich-text block plus a
// priority accent color.
//
// Fallback is intentionally left empty: the delivery channel would
// render it alongside Text and duplicate the alert.
type Payload struct {
	Color    string
	Text     string
	Fallback string
}

// Priority accent colors.
const (
	colorHigh   = "#E01E5A" // red
	colorMedium = "#ECB22E" // orange
	colorLow    = "#36C5F0" // blue
)

func priorityColor(p recall.Priority) string {
	switch p {
	case recall.PriorityHigh:
		return colorHigh
	case recall.PriorityMedium:
		return colorMedium
	default:
		return colorLow
	}
}

func priorityGlyph(p recall.Priority) string {
	switch p {
	case recall.PriorityHigh:
		return "\U0001F534" // red circle
	case recall.PriorityMedium:
		return "\U0001F7E0" // orange circle
	default:
		return "\U0001F535" // blue circle
	}
}

var typeTitles = map[recall.Type]string{
	recall.TypeAllergen:        "Undeclared Allergen",
	recall.TypeBacteria:        "Bacterial Contamination",
	recall.TypeForeignMaterial: "Foreign Material",
	recall.TypeMislabeling:     "Mislabeling",
	recall.TypeQuality:         "Quality Issue",
	recall.TypeProcessing:      "Processing Defect",
	recall.TypeUnauthorized:    "Unauthorized Ingredient",
	recall.TypeOther:           "Food Recall",
}

// Truncate caps s at max runes, appending "..." when anything was cut.
// max <= 0 leaves s untouched.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	return string(rs[:max]) + "..."
}

// Format renders one recall record as an alert payload. It never fails:
// missing fields fall back to placeholders and an unparsable date renders
// as "Recent".
func Format(rec recall.Record, maxFieldLen int) Payload {
	if maxFieldLen <= 0 {
		maxFieldLen = DefaultMaxFieldLen
	}
	res := recall.Classify(rec)

	var b strings.Builder
	b.WriteString(priorityGlyph(res.Priority))
	b.WriteString(" <b>FDA Recall Alert: ")
	b.WriteString(typeTitles[res.Type])
	b.WriteString("</b>\n")

	b.WriteString("⚠️ <b>Product:</b> ")
	b.WriteString(html.EscapeString(Truncate(rec.Product(), maxFieldLen)))
	b.WriteString("\n")

	b.WriteString("\U0001F3ED <b>Company:</b> ")
	b.WriteString(html.EscapeString(rec.Firm()))
	b.WriteString("\n")

	b.WriteString("❗ <b>Reason:</b> ")
	b.WriteString(html.EscapeString(Truncate(rec.Reason(), maxFieldLen)))
	b.WriteString("\n")

	b.WriteString("\U0001F4C5 <b>Date:</b> ")
	b.WriteString(rec.DisplayDate())
	b.WriteString(" (")
	b.WriteString(html.EscapeString(rec.RegulatoryClass()))
	b.WriteString(")\n")

	// The allergen line only makes sense when the recall is about
	// labeling or allergens; a listeria recall that happens to mention
	// "milk" in the product name would just confuse.
	if (res.Type == recall.TypeAllergen || res.Type == recall.TypeMislabeling) && len(res.Allergens) > 0 {
		names := make([]string, len(res.Allergens))
		for i, a := range res.Allergens {
			names[i] = string(a)
		}
		b.WriteString("\U0001F9EA <b>Allergens:</b> ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n")
	}

	b.WriteString("\U0001F30E <b>Distribution:</b> ")
	b.WriteString(strings.Join(res.Regions, ", "))
	b.WriteString("\n")

	b.WriteString("\U0001F517 <a href=\"" + ReferenceURL + "\">More info</a>")

	return Payload{
		Color: priorityColor(res.Priority),
		Text:  b.String(),
	}
}

// FormatQuiet is the optional "nothing new" note for runs that found no
// new recalls.
func FormatQuiet() Payload {
	return Payload{
		Color: colorLow,
		Text:  "✅ <b>FDA Recall Check:</b> no new recalls found.",
	}
}
