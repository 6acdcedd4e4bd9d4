// Package social holds the ticker-matching rules shared by the mention
// adapters.
package social

import (
	"regexp"
	"strings"
)

// Matcher reports whether free text references a ticker. The ticker must
// appear as a standalone token: preceded by whitespace, '$', '#' or start of
// text, and followed by a non-word character or end of text. This keeps
// "TCS" from matching inside "PETROLTCS".
type Matcher struct {
	re *regexp.Regexp
}

// NewMatcher builds a case-insensitive matcher for ticker
func NewMatcher(ticker string) *Matcher {
	pattern := `(?i)(?:^|[\s$#])` + regexp.QuoteMeta(ticker) + `(?:[^0-9A-Za-z_]|$)`
	return &Matcher{re: regexp.MustCompile(pattern)}
}

// Matches reports whether text contains the ticker as a token
func (m *Matcher) Matches(text string) bool {
	return m.re.MatchString(text)
}

// BaseTicker strips an exchange suffix from a quote symbol
// ("RELIANCE.NS" -> "RELIANCE").
func BaseTicker(symbol string) string {
	if i := strings.IndexByte(symbol, '.'); i > 0 {
		return symbol[:i]
	}
	return symbol
}

// Truncate shortens post text for report payloads, appending an ellipsis
func Truncate(text string, max int) string {
	text = strings.TrimSpace(text)
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}
