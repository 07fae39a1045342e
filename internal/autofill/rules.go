package autofill

import (
	"regexp"
	"strings"
)

// normalizeDelims folds the delimiter characters found in attribute values
// (snake_case, kebab-case, BEM-ish class names, path-like ids) to spaces so
// whole-word matching works on one uniform corpus.
var normalizeDelims = strings.NewReplacer(
	"_", " ", "-", " ", ":", " ", "/", " ", "\\", " ",
)

func normalize(s string) string {
	s = strings.ToLower(normalizeDelims.Replace(s))
	return strings.Join(strings.Fields(s), " ")
}

// word compiles a whole-word pattern. Boundary anchoring is what keeps
// "username" from matching the bare "name" rule.
func word(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`\b(?:` + pattern + `)\b`)
}

// negative lists corpus words that veto classification outright: free-text
// and temporal fields must never receive a contact-info token.
var negative = word(`message|comments|notes|date|time`)

// rule pairs a purpose token with its corpus predicate.
type rule struct {
	token Token
	match func(corpus string) bool
}

func matchWord(pattern string) func(string) bool {
	re := word(pattern)
	return re.MatchString
}

// matchAll requires every pattern to appear as a whole word.
func matchAll(patterns ...string) func(string) bool {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = word(p)
	}
	return func(corpus string) bool {
		for _, re := range res {
			if !re.MatchString(corpus) {
				return false
			}
		}
		return true
	}
}

// rules is the ordered classification table. First match wins; the order is
// deliberate (specific name parts before the bare "name" rule, address
// lines before the bare "address" rule).
var rules = []rule{
	{TokenEmail, matchWord(`e ?mail`)},
	{TokenTel, matchWord(`phone|telephone|tel|mobile|cell`)},
	{TokenGivenName, matchAll(`first`, `name`)},
	{TokenFamilyName, matchAll(`last`, `name`)},
	{TokenFamilyName, matchWord(`surname`)},
	{TokenAdditionalName, matchAll(`middle`, `name`)},
	{TokenName, matchWord(`name`)},
	{TokenOrganization, matchWord(`company|organization|organisation|business`)},
	{TokenAddressLine1, matchWord(`address ?(?:line ?)?1`)},
	{TokenAddressLine2, matchWord(`address ?(?:line ?)?2`)},
	{TokenStreetAddress, matchWord(`street|address`)},
	{TokenAddressLevel2, matchWord(`city|town|locality`)},
	{TokenAddressLevel1, matchWord(`state|province|region`)},
	{TokenPostalCode, matchWord(`zip|postal|post ?code`)},
	{TokenCountryName, matchWord(`country`)},
	{TokenURL, matchWord(`website|url`)},
}
