// Package glob compiles shell-style path patterns into matchers.
//
// Patterns are matched against the whole path string rather than per path
// segment: '*' matches any run of characters including '/', '?' matches a
// single character, and '[seq]' / '[!seq]' match a character class. An
// unterminated '[' is taken literally.
package glob

import (
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"golang.org/x/text/cases"

	"git.home.luguber.info/inful/affected/internal/foundation/normalization"
)

// CaseMode selects how letter case is compared.
type CaseMode int

const (
	// CaseHost follows the host filesystem convention: insensitive on
	// Windows, sensitive everywhere else.
	CaseHost CaseMode = iota
	CaseSensitive
	CaseInsensitive
)

var caseModeNormalizer = normalization.NewNormalizer("case mode", map[string]CaseMode{
	"host":        CaseHost,
	"sensitive":   CaseSensitive,
	"insensitive": CaseInsensitive,
}, CaseHost)

// ParseCaseMode maps a flag value (host|sensitive|insensitive) to a CaseMode.
func ParseCaseMode(s string) (CaseMode, error) {
	return caseModeNormalizer.NormalizeWithError(s)
}

// Folds reports whether the mode compares case-insensitively on this host.
func (m CaseMode) Folds() bool {
	switch m {
	case CaseSensitive:
		return false
	case CaseInsensitive:
		return true
	default:
		return runtime.GOOS == "windows"
	}
}

// Pattern is a compiled glob.
type Pattern struct {
	raw  string
	fold bool
	re   *regexp.Regexp
}

// Compile translates a glob into an anchored regular expression.
func Compile(pattern string, mode CaseMode) (*Pattern, error) {
	fold := mode.Folds()
	src := pattern
	if fold {
		src = cases.Fold().String(src)
	}
	re, err := regexp.Compile(translate(src))
	if err != nil {
		return nil, fmt.Errorf("compile glob %q: %w", pattern, err)
	}
	return &Pattern{raw: pattern, fold: fold, re: re}, nil
}

// Match reports whether name matches the pattern in its entirety.
func (p *Pattern) Match(name string) bool {
	if p.fold {
		name = cases.Fold().String(name)
	}
	return p.re.MatchString(name)
}

// String returns the pattern as written.
func (p *Pattern) String() string { return p.raw }

// translate converts a glob to a regex string (anchored).
func translate(glob string) string {
	var b strings.Builder
	b.WriteString(`(?s)^`)
	n := len(glob)
	for i := 0; i < n; {
		c := glob[i]
		i++
		switch c {
		case '*':
			// Collapse runs of '*' so "a**b" does not produce nested quantifiers.
			for i < n && glob[i] == '*' {
				i++
			}
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			end := classEnd(glob, i)
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(class(glob[i:end]))
			i = end + 1
		default:
			b.WriteString(regexp.QuoteMeta(glob[i-1 : i]))
		}
	}
	b.WriteString(`$`)
	return b.String()
}

// classEnd returns the index of the ']' closing a class whose body starts at
// i, or -1 when the class is unterminated. A ']' directly after '[' or '[!'
// is part of the set.
func classEnd(glob string, i int) int {
	j := i
	if j < len(glob) && glob[j] == '!' {
		j++
	}
	if j < len(glob) && glob[j] == ']' {
		j++
	}
	for j < len(glob) && glob[j] != ']' {
		j++
	}
	if j >= len(glob) {
		return -1
	}
	return j
}

// classItem is one member of a bracket expression: a single rune when lo
// equals hi, a range otherwise.
type classItem struct {
	lo, hi rune
}

// class renders a bracket expression body as a regex. A '-' between two
// members forms a range; a leading or trailing '-' is literal. Reversed
// ranges are empty and dropped. A class left with no members matches
// nothing, or any single character when negated.
func class(body string) string {
	negate := strings.HasPrefix(body, "!")
	if negate {
		body = body[1:]
	}
	r := []rune(body)
	items := make([]classItem, 0, len(r))
	for p := 0; p < len(r); {
		if p+2 < len(r) && r[p+1] == '-' {
			if r[p] <= r[p+2] {
				items = append(items, classItem{lo: r[p], hi: r[p+2]})
			}
			p += 3
			continue
		}
		items = append(items, classItem{lo: r[p], hi: r[p]})
		p++
	}

	if len(items) == 0 {
		if negate {
			return `.`
		}
		return `[^\x00-\x{10FFFF}]`
	}

	var b strings.Builder
	b.WriteByte('[')
	if negate {
		b.WriteByte('^')
	}
	for _, it := range items {
		writeClassRune(&b, it.lo)
		if it.hi != it.lo {
			b.WriteByte('-')
			writeClassRune(&b, it.hi)
		}
	}
	b.WriteByte(']')
	return b.String()
}

func writeClassRune(b *strings.Builder, c rune) {
	switch c {
	case '\\', '[', ']', '^', '-':
		b.WriteByte('\\')
	}
	b.WriteRune(c)
}
