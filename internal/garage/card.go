package garage

import "strings"

// Card-number format validation. This is a prefix/length check against the
// numbering schemes below, not a payment authorization: no Luhn checksum,
// no processor call. Separators (hyphens and spaces) are stripped before
// matching.

const (
	visaShortLength  = 13
	visaLength       = 16
	masterCardLength = 16
	discoverLength   = 16
	amexLength       = 15
	dinersClubLength = 14
	enRouteLength    = 15
	jcbLength        = 16
)

type cardScheme struct {
	name    string
	matches func(digits string) bool
}

var cardSchemes = []cardScheme{
	{"Visa", isVisa},
	{"MasterCard", isMasterCard},
	{"Discover", isDiscover},
	{"American Express", isAmericanExpress},
	{"Diners Club", isDinersClub},
	{"enRoute/JCB", isEnRouteOrJCB},
}

// ValidCardNumber reports whether raw matches any supported card scheme
// once hyphens and spaces are removed.
func ValidCardNumber(raw string) bool {
	digits := normalizeCardNumber(raw)
	if digits == "" || !allDigits(digits) {
		return false
	}
	for _, scheme := range cardSchemes {
		if scheme.matches(digits) {
			return true
		}
	}
	return false
}

// CardScheme returns the name of the scheme a card number belongs to, or
// an empty string when none matches.
func CardScheme(raw string) string {
	digits := normalizeCardNumber(raw)
	if digits == "" || !allDigits(digits) {
		return ""
	}
	for _, scheme := range cardSchemes {
		if scheme.matches(digits) {
			return scheme.name
		}
	}
	return ""
}

func normalizeCardNumber(raw string) string {
	raw = strings.ReplaceAll(raw, "-", "")
	return strings.ReplaceAll(raw, " ", "")
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Visa: 13 or 16 digits starting with 4.
func isVisa(digits string) bool {
	if len(digits) != visaShortLength && len(digits) != visaLength {
		return false
	}
	return digits[0] == '4'
}

// MasterCard: 16 digits, prefix 51 through 55.
func isMasterCard(digits string) bool {
	if len(digits) != masterCardLength {
		return false
	}
	return digits[0] == '5' && digits[1] >= '1' && digits[1] <= '5'
}

// Discover: 16 digits, prefix 6011 or 65.
func isDiscover(digits string) bool {
	if len(digits) != discoverLength {
		return false
	}
	return strings.HasPrefix(digits, "6011") || strings.HasPrefix(digits, "65")
}

// American Express: 15 digits, prefix 34 or 37.
func isAmericanExpress(digits string) bool {
	if len(digits) != amexLength {
		return false
	}
	return strings.HasPrefix(digits, "34") || strings.HasPrefix(digits, "37")
}

// Diners Club: 14 digits, prefix 300-305, 36 or 38.
func isDinersClub(digits string) bool {
	if len(digits) != dinersClubLength {
		return false
	}
	if strings.HasPrefix(digits, "30") {
		return digits[2] >= '0' && digits[2] <= '5'
	}
	return strings.HasPrefix(digits, "36") || strings.HasPrefix(digits, "38")
}

// enRoute: 15 digits, prefix 2131 or 1800. JCB: 16 digits, prefix 35.
func isEnRouteOrJCB(digits string) bool {
	if len(digits) == enRouteLength {
		return strings.HasPrefix(digits, "2131") || strings.HasPrefix(digits, "1800")
	}
	if len(digits) == jcbLength {
		return strings.HasPrefix(digits, "35")
	}
	return false
}
