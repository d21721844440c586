// Package gazetteer recognizes US state references embedded in free text,
// by 2-letter USPS code or by full name.
package gazetteer

import "strings"

// stateNames maps USPS codes to lowercase full state names.
var stateNames = map[string]string{
	"AL": "alabama",
	"AK": "alaska",
	"AZ": "arizona",
	"AR": "arkansas",
	"CA": "california",
	"CO": "colorado",
	"CT": "connecticut",
	"DE": "delaware",
	"DC": "district of columbia",
	"FL": "florida",
	"GA": "georgia",
	"HI": "hawaii",
	"ID": "idaho",
	"IL": "illinois",
	"IN": "indiana",
	"IA": "iowa",
	"KS": "kansas",
	"KY": "kentucky",
	"LA": "louisiana",
	"ME": "maine",
	"MD": "maryland",
	"MA": "massachusetts",
	"MI": "michigan",
	"MN": "minnesota",
	"MS": "mississippi",
	"MO": "missouri",
	"MT": "montana",
	"NE": "nebraska",
	"NV": "nevada",
	"NH": "new hampshire",
	"NJ": "new jersey",
	"NM": "new mexico",
	"NY": "new york",
	"NC": "north carolina",
	"ND": "north dakota",
	"OH": "ohio",
	"OK": "oklahoma",
	"OR": "oregon",
	"PA": "pennsylvania",
	"PR": "puerto rico",
	"RI": "rhode island",
	"SC": "south carolina",
	"SD": "south dakota",
	"TN": "tennessee",
	"TX": "texas",
	"UT": "utah",
	"VT": "vermont",
	"VA": "virginia",
	"WA": "washington",
	"WV": "west virginia",
	"WI": "wisconsin",
	"WY": "wyoming",
}

// nameToCode is the reverse lookup, full name -> code.
var nameToCode = make(map[string]string, len(stateNames))

func init() {
	for code, name := range stateNames {
		nameToCode[name] = code
	}
}

// MaxNameTokens is the longest full state name in tokens ("district of
// columbia"). Callers scanning token windows never need a wider one.
const MaxNameTokens = 3

// Abbreviation resolves a phrase naming a US state, by code or full name,
// case-insensitively. It returns the 2-letter USPS code.
func Abbreviation(phrase string) (string, bool) {
	normalized := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(phrase))), " ")
	if normalized == "" {
		return "", false
	}
	if len(normalized) == 2 {
		code := strings.ToUpper(normalized)
		if _, ok := stateNames[code]; ok {
			return code, true
		}
	}
	if code, ok := nameToCode[normalized]; ok {
		return code, true
	}
	return "", false
}

// IsCode reports whether the token is exactly a 2-letter USPS state code,
// case-insensitively, and returns its canonical uppercase form.
func IsCode(token string) (string, bool) {
	if len(token) != 2 {
		return "", false
	}
	code := strings.ToUpper(token)
	if _, ok := stateNames[code]; ok {
		return code, true
	}
	return "", false
}

// FullName returns the lowercase full name for a USPS code.
func FullName(code string) (string, bool) {
	name, ok := stateNames[strings.ToUpper(code)]
	return name, ok
}

// MatchSuffix tries to interpret the trailing tokens of a phrase as a state
// reference, preferring the longest full-name match. It returns the USPS code
// and the number of trailing tokens consumed.
func MatchSuffix(tokens []string) (code string, consumed int, ok bool) {
	for n := MaxNameTokens; n >= 1; n-- {
		if n > len(tokens) {
			continue
		}
		phrase := strings.Join(tokens[len(tokens)-n:], " ")
		if c, found := Abbreviation(phrase); found {
			return c, n, true
		}
	}
	return "", 0, false
}
