package shipping

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedPostalPattern marks a stored postal code pattern that cannot be evaluated
var ErrMalformedPostalPattern = errors.New("malformed postal code pattern")

// PostalPattern is a compiled postal code glob.
//
// Patterns are matched case-insensitively against the whole postal code with
// whitespace ignored on both sides. '*' matches any run of characters
// (including none) and '?' matches exactly one character. Every other
// allowed character (letters, digits and '-') matches itself.
type PostalPattern struct {
	raw string
	re  *regexp.Regexp
}

// CompilePostalPattern validates and compiles a postal code glob
func CompilePostalPattern(pattern string) (*PostalPattern, error) {
	normalized := stripSpaces(pattern)
	if normalized == "" {
		return nil, fmt.Errorf("%w: pattern is empty", ErrMalformedPostalPattern)
	}

	var sb strings.Builder
	sb.WriteString("(?i)^")
	for _, r := range normalized {
		switch {
		case r == '*':
			sb.WriteString(".*")
		case r == '?':
			sb.WriteString(".")
		case r == '-', r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			sb.WriteString(regexp.QuoteMeta(string(r)))
		default:
			return nil, fmt.Errorf("%w: unsupported character %q in %q", ErrMalformedPostalPattern, r, pattern)
		}
	}
	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPostalPattern, err)
	}
	return &PostalPattern{raw: pattern, re: re}, nil
}

// Matches reports whether postalCode satisfies the pattern
func (p *PostalPattern) Matches(postalCode string) bool {
	code := stripSpaces(postalCode)
	if code == "" {
		return false
	}
	return p.re.MatchString(code)
}

// String returns the pattern as stored
func (p *PostalPattern) String() string {
	return p.raw
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
