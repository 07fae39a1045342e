// Package autofill implements the field-purpose classifier: given the
// textual signals visible on a form control, decide which standard
// autocomplete token the field should carry, if any.
//
// Classification is a pure function of the gathered signals. The priority
// order is an explicit rule table (see rules.go), not control flow: the
// first matching rule wins, and negative overrides are evaluated before any
// positive rule so free-text and temporal fields never receive a
// contact-info token.
package autofill

// Token is a standard autocomplete purpose token.
type Token string

const (
	TokenEmail          Token = "email"
	TokenTel            Token = "tel"
	TokenURL            Token = "url"
	TokenName           Token = "name"
	TokenGivenName      Token = "given-name"
	TokenFamilyName     Token = "family-name"
	TokenAdditionalName Token = "additional-name"
	TokenOrganization   Token = "organization"
	TokenAddressLine1   Token = "address-line1"
	TokenAddressLine2   Token = "address-line2"
	TokenStreetAddress  Token = "street-address"
	TokenAddressLevel1  Token = "address-level1"
	TokenAddressLevel2  Token = "address-level2"
	TokenPostalCode     Token = "postal-code"
	TokenCountryName    Token = "country-name"
)

// Signals are the page-visible inputs to classification, in corpus priority
// order: label text first, wrapper class hints last.
type Signals struct {
	Type         string // the control's type attribute
	Label        string // resolved accessible label text
	Name         string // name attribute
	ID           string // id attribute
	Placeholder  string // placeholder attribute
	WrapperClass string // class list of the nearest field-wrapper ancestor
}

// Classify returns the purpose token for the control, or ok=false when no
// decision can be made. Deterministic: identical signals always produce the
// same result.
func Classify(sig Signals) (Token, bool) {
	// A strong input type beats every text heuristic.
	switch normalize(sig.Type) {
	case "email":
		return TokenEmail, true
	case "tel":
		return TokenTel, true
	case "url":
		return TokenURL, true
	}

	corpus := Corpus(sig)
	if corpus == "" {
		return "", false
	}

	if negative.MatchString(corpus) {
		return "", false
	}

	for _, r := range rules {
		if r.match(corpus) {
			return r.token, true
		}
	}
	return "", false
}

// Corpus assembles the normalized text corpus from the signals, label text
// first, wrapper class hints last.
func Corpus(sig Signals) string {
	return normalize(sig.Label + " " + sig.Name + " " + sig.ID + " " +
		sig.Placeholder + " " + sig.WrapperClass)
}
