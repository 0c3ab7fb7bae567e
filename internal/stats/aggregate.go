// Package stats summarizes a recall window into ranked frequency tables.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"recallbot/internal/recall"
)

// TopN is how many entries each ranked table keeps.
const TopN = 5

// Entry is one ranked line: a name, its raw count, and (for recall types
// only) its share of the window.
type Entry struct {
	Name    string
	Count   int
	Percent float64 // 0 when the table reports raw counts only
}

// Summary is the multi-section statistics payload.
type Summary struct {
	Total     int
	Types     []Entry
	Allergens []Entry
	Regions   []Entry
	Empty     bool
}

// Aggregate tallies a record window.
//
// Allergens are summed across records, not deduplicated per recall: two
// products with undeclared milk count milk twice. Nationwide/Unspecified
// sentinels are excluded from the region table. Empty input yields an
// explicit Empty summary instead of zeroed tables.
func Aggregate(records []recall.Record) Summary {
	if len(records) == 0 {
		return Summary{Empty: true}
	}

	typeCounts := map[string]int{}
	allergenCounts := map[string]int{}
	regionCounts := map[string]int{}

	for _, rec := range records {
		res := recall.Classify(rec)
		typeCounts[string(res.Type)]++
		for _, a := range res.Allergens {
			allergenCounts[string(a)]++
		}
		for _, region := range res.Regions {
			if region == recall.RegionNationwide || region == recall.RegionUnspecified {
				continue
			}
			regionCounts[region]++
		}
	}

	total := len(records)
	return Summary{
		Total:     total,
		Types:     rank(typeCounts, total),
		Allergens: rank(allergenCounts, 0),
		Regions:   rank(regionCounts, 0),
	}
}

// rank sorts a tally descending by count (name ascending on ties) and
// keeps the top entries. denom > 0 adds a percentage share.
func rank(counts map[string]int, denom int) []Entry {
	out := make([]Entry, 0, len(counts))
	for name, n := range counts {
		e := Entry{Name: name, Count: n}
		if denom > 0 {
			e.Percent = float64(n) * 100 / float64(denom)
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > TopN {
		out = out[:TopN]
	}
	return out
}

// Text renders the summary as a rich-text block for delivery.
func (s Summary) Text() string {
	if s.Empty {
		return "\U0001F4CA <b>FDA Recall Statistics</b>\nNo recall data available for this period."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\U0001F4CA <b>FDA Recall Statistics</b> (%d recalls)\n", s.Total)

	if len(s.Types) > 0 {
		b.WriteString("\n<b>By type</b>\n")
		for _, e := range s.Types {
			fmt.Fprintf(&b, "  %s: %d (%.0f%%)\n", e.Name, e.Count, e.Percent)
		}
	}
	if len(s.Allergens) > 0 {
		b.WriteString("\n<b>Top allergens</b>\n")
		for _, e := range s.Allergens {
			fmt.Fprintf(&b, "  %s: %d\n", e.Name, e.Count)
		}
	}
	if len(s.Regions) > 0 {
		b.WriteString("\n<b>Most affected states</b>\n")
		for _, e := range s.Regions {
			fmt.Fprintf(&b, "  %s: %d\n", e.Name, e.Count)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
