package recall

import "sort"

// IdentifyNew returns the records in current that were not present in the
// previous snapshot, sorted by report date descending (ties keep fetch
// order).
//
// Identity is the product description alone: two records with the same
// product text count as the same recall even if other fields differ.
// A record whose description was already seen still comes back when its
// report date is strictly newer than anything in the snapshot, so
// corrected or re-issued recalls surface again.
func IdentifyNew(current, previous []Record) []Record {
	seen := make(map[string]struct{}, len(previous))
	mostRecent := ""
	for _, p := range previous {
		seen[p.ProductDescription] = struct{}{}
		if p.ReportDate > mostRecent {
			mostRecent = p.ReportDate
		}
	}

	var out []Record
	for _, c := range current {
		_, known := seen[c.ProductDescription]
		if !known || c.ReportDate > mostRecent {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReportDate > out[j].ReportDate
	})
	return out
}
