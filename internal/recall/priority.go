package recall

import "strings"

// Priority is the notification urgency tier.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

var (
	pathogenKeywords = []string{"listeria", "e. coli", "e.coli", "salmonella", "botulism"}
	majorAllergens   = []string{"peanut", "tree nut", "milk", "egg"}
)

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// DeterminePriority derives the urgency tier from the recall reason and
// the regulatory classification. The rules form an ordered decision list;
// the first match wins. Pathogens outrank the regulatory class on
// purpose: a Class III recall for listeria is still a medically urgent
// one. The common severe allergens only push a record to high when no
// regulatory class already placed it.
//
// The "class i"/"class ii" checks guard against the substring overlap
// between the tier labels (Class III contains "class ii" contains
// "class i").
func DeterminePriority(r Record) Priority {
	reason := strings.ToLower(r.ReasonForRecall)
	class := strings.ToLower(r.Classification)

	isClassI := strings.Contains(class, "class i") && !strings.Contains(class, "class ii")
	isClassII := strings.Contains(class, "class ii") && !strings.Contains(class, "class iii")

	switch {
	case isClassI:
		return PriorityHigh
	case containsAny(reason, pathogenKeywords):
		return PriorityHigh
	case isClassII && (strings.Contains(reason, "undeclared") || strings.Contains(reason, "allergen")):
		return PriorityMedium
	case isClassII:
		return PriorityMedium
	case containsAny(reason, majorAllergens):
		return PriorityHigh
	default:
		return PriorityLow
	}
}
