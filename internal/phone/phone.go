// Package phone converts raw phone strings into WhatsApp-dialable numbers
// and wa.me deep links. Everything here is a pure transformation; link
// generation never transmits anything — opening the link is a manual user
// action.
package phone

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultCountryCode is prefixed to bare national numbers.
const DefaultCountryCode = "91"

// minDigits is the shortest dialable number accepted.
const minDigits = 10

var ErrInvalidPhone = errors.New("invalid phone number")

// Normalize turns a raw phone string into the international digit string
// used in wa.me links: non-digits stripped, one leading trunk zero
// dropped, and the default country code prefixed when exactly ten digits
// remain. Longer strings are assumed to carry their own country code.
func Normalize(raw string) (string, error) {
	return normalize(raw, DefaultCountryCode)
}

// NormalizeWithCountryCode is Normalize with a caller-chosen default
// country code.
func NormalizeWithCountryCode(raw, countryCode string) (string, error) {
	return normalize(raw, countryCode)
}

func normalize(raw, countryCode string) (string, error) {
	digits := digitsOnly(raw)
	if len(digits) < minDigits {
		return "", fmt.Errorf("%w: %q has fewer than %d digits", ErrInvalidPhone, raw, minDigits)
	}

	if strings.HasPrefix(digits, "0") {
		digits = digits[1:]
	}
	if len(digits) == minDigits {
		digits = countryCode + digits
	}

	if len(digits) < minDigits {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}
	return digits, nil
}

// WhatsAppURL builds the wa.me deep link for the given phone. The text
// parameter is omitted entirely when message is empty or all-whitespace.
func WhatsAppURL(rawPhone, message string) (string, error) {
	return WhatsAppURLWithCountryCode(rawPhone, message, DefaultCountryCode)
}

func WhatsAppURLWithCountryCode(rawPhone, message, countryCode string) (string, error) {
	digits, err := normalize(rawPhone, countryCode)
	if err != nil {
		return "", err
	}

	link := "https://wa.me/" + digits
	if trimmed := strings.TrimSpace(message); trimmed != "" {
		link += "?text=" + encodeMessage(trimmed)
	}
	return link, nil
}

// encodeMessage percent-encodes the prefill text. QueryEscape alone
// renders spaces as "+", which WhatsApp shows literally, so they become
// %20 instead.
func encodeMessage(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// IsValid reports whether the raw string normalizes to a dialable number.
func IsValid(raw string) bool {
	_, err := Normalize(raw)
	return err == nil
}

// FormatDisplay renders a phone for presentation. Lossy and cosmetic
// only — never feed the result back into Normalize or WhatsAppURL.
func FormatDisplay(raw string) string {
	if raw == "" {
		return ""
	}
	digits := digitsOnly(raw)
	if len(digits) < minDigits {
		return raw
	}

	switch {
	case len(digits) == 10:
		return fmt.Sprintf("+91 %s %s", digits[:5], digits[5:])
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		national := digits[2:]
		return fmt.Sprintf("+91 %s %s", national[:5], national[5:])
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return fmt.Sprintf("+1 (%s) %s-%s", digits[1:4], digits[4:7], digits[7:])
	default:
		return "+" + digits
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
