package notify

import (
	"strings"
	"testing"

	"recallbot/internal/recall"
)

func TestFormatFullRecord(t *testing.T) {
	t.Parallel()
	rec := recall.Record{
		ReportDate:          "20240115",
		ProductDescription:  "Crunchy Granola 12oz",
		ReasonForRecall:     "undeclared peanut allergen",
		RecallingFirm:       "Acme Foods",
		DistributionPattern: "Nationwide",
		Classification:      "Class II",
	}
	p := Format(rec, 0)

	if p.Text == "" {
		t.Fatal("rendered text must be non-empty")
	}
	if p.Fallback != "" {
		t.Fatalf("fallback must stay empty, got %q", p.Fallback)
	}
	if p.Color != "#ECB22E" {
		t.Fatalf("Class II undeclared allergen should be medium/orange, got %q", p.Color)
	}
	for _, want := range []string{
		"Undeclared Allergen",
		"Crunchy Granola 12oz",
		"Acme Foods",
		"January 15, 2024",
		"Class II",
		"peanuts",
		"Nationwide",
		ReferenceURL,
	} {
		if !strings.Contains(p.Text, want) {
			t.Fatalf("rendered text missing %q:\n%s", want, p.Text)
		}
	}
}

func TestFormatEmptyRecordUsesPlaceholders(t *testing.T) {
	t.Parallel()
	p := Format(recall.Record{}, 0)
	if p.Text == "" {
		t.Fatal("rendered text must be non-empty")
	}
	for _, want := range []string{
		recall.PlaceholderProduct,
		recall.PlaceholderFirm,
		"Recent",
	} {
		if !strings.Contains(p.Text, want) {
			t.Fatalf("rendered text missing placeholder %q:\n%s", want, p.Text)
		}
	}
	if p.Color != "#36C5F0" {
		t.Fatalf("empty record should be low/blue, got %q", p.Color)
	}
}

func TestFormatAllergenLineGating(t *testing.T) {
	t.Parallel()

	// Bacterial recall mentioning milk in the product: no allergen line.
	p := Format(recall.Record{
		ProductDescription: "Whole milk 1gal",
		ReasonForRecall:    "Listeria monocytogenes contamination",
	}, 0)
	if strings.Contains(p.Text, "Allergens:") {
		t.Fatalf("bacteria recall must not carry an allergen line:\n%s", p.Text)
	}

	// Allergen recall with matches: line present.
	p = Format(recall.Record{ReasonForRecall: "undeclared milk and egg"}, 0)
	if !strings.Contains(p.Text, "Allergens:") {
		t.Fatalf("allergen recall missing allergen line:\n%s", p.Text)
	}
	if !strings.Contains(p.Text, "eggs, milk") {
		t.Fatalf("allergen list not sorted/joined:\n%s", p.Text)
	}
}

func TestFormatEscapesHTML(t *testing.T) {
	t.Parallel()
	p := Format(recall.Record{ProductDescription: `Snack <b>"bars"</b> & more`}, 0)
	if strings.Contains(p.Text, `<b>"bars"</b>`) {
		t.Fatalf("user text must be HTML-escaped:\n%s", p.Text)
	}
	if !strings.Contains(p.Text, "&lt;b&gt;") {
		t.Fatalf("expected escaped markup:\n%s", p.Text)
	}
}

func TestFormatPriorityColors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		rec   recall.Record
		color string
	}{
		{name: "high red", rec: recall.Record{Classification: "Class I"}, color: "#E01E5A"},
		{name: "medium orange", rec: recall.Record{Classification: "Class II"}, color: "#ECB22E"},
		{name: "low blue", rec: recall.Record{}, color: "#36C5F0"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if p := Format(tt.rec, 0); p.Color != tt.color {
				t.Fatalf("color = %q, want %q", p.Color, tt.color)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "under limit", in: "short", max: 10, want: "short"},
		{name: "at limit", in: "exactly10!", max: 10, want: "exactly10!"},
		{name: "over limit", in: "0123456789X", max: 10, want: "0123456789..."},
		{name: "zero max is untouched", in: "whatever", max: 0, want: "whatever"},
		{name: "multibyte runes", in: "héllö wörld", max: 5, want: "héllö..."},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.max); got != tt.want {
				t.Fatalf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestFormatTruncatesLongReason(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("a", 1500)
	p := Format(recall.Record{ReasonForRecall: long}, 1000)
	if strings.Contains(p.Text, strings.Repeat("a", 1001)) {
		t.Fatal("reason not truncated to the configured limit")
	}
	if !strings.Contains(p.Text, strings.Repeat("a", 1000)+"...") {
		t.Fatal("truncated reason missing ellipsis marker")
	}
}
