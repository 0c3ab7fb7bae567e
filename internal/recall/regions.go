package recall

import (
	"regexp"
	"sort"
	"strings"
)

// Region sentinels. A populated state set never contains either of these.
const (
	RegionNationwide  = "Nationwide"
	RegionUnspecified = "Unspecified"
)

// stateNames maps full state names (plus DC) to postal abbreviations.
var stateNames = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT",
	"delaware": "DE", "district of columbia": "DC", "florida": "FL",
	"georgia": "GA", "hawaii": "HI", "idaho": "ID", "illinois": "IL",
	"indiana": "IN", "iowa": "IA", "kansas": "KS", "kentucky": "KY",
	"louisiana": "LA", "maine": "ME", "maryland": "MD",
	"massachusetts": "MA", "michigan": "MI", "minnesota": "MN",
	"mississippi": "MS", "missouri": "MO", "montana": "MT",
	"nebraska": "NE", "nevada": "NV", "new hampshire": "NH",
	"new jersey": "NJ", "new mexico": "NM", "new york": "NY",
	"north carolina": "NC", "north dakota": "ND", "ohio": "OH",
	"oklahoma": "OK", "oregon": "OR", "pennsylvania": "PA",
	"rhode island": "RI", "south carolina": "SC", "south dakota": "SD",
	"tennessee": "TN", "texas": "TX", "utah": "UT", "vermont": "VT",
	"virginia": "VA", "washington": "WA", "west virginia": "WV",
	"wisconsin": "WI", "wyoming": "WY",
}

// stateAbbrevRe matches standalone postal abbreviations. It is
// deliberately case-sensitive: lowercase "in", "or" and "me" are ordinary
// English words, and the API writes distribution states in caps.
var stateAbbrevRe = regexp.MustCompile(`\b(A[KLRZ]|C[AOT]|D[CE]|FL|GA|HI|I[ADLN]|K[SY]|LA|M[ADEINOST]|N[CDEHJMVY]|O[HKR]|PA|RI|S[CD]|T[NX]|UT|V[AT]|W[AIVY])\b`)

// ExtractRegions turns a free-text distribution pattern into a sorted set
// of state abbreviations, or one of the sentinel singletons.
//
// "Nationwide"/"national" short-circuits everything else. Otherwise the
// union of word-bounded abbreviation tokens and case-insensitive full
// state names is returned; an empty union is {Unspecified}.
func ExtractRegions(text string) []string {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "nationwide") || strings.Contains(lower, "national") {
		return []string{RegionNationwide}
	}

	set := map[string]struct{}{}
	for _, m := range stateAbbrevRe.FindAllString(text, -1) {
		set[m] = struct{}{}
	}
	for name, abbrev := range stateNames {
		if strings.Contains(lower, name) {
			set[abbrev] = struct{}{}
		}
	}
	if len(set) == 0 {
		return []string{RegionUnspecified}
	}

	out := make([]string, 0, len(set))
	for abbrev := range set {
		out = append(out, abbrev)
	}
	sort.Strings(out)
	return out
}
