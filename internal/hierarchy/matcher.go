package hierarchy

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Match is the result of a successful heading match on a trimmed line.
type Match struct {
	Number string // Number text as written, e.g. "IV" or "12"
	Full   string // Prefix, number and suffix as they appear in the line
	Rest   string // Everything after Full
}

// Matcher tests whether a trimmed line opens with a level's heading token.
type Matcher func(line string) (Match, bool)

// LevelMatcher pairs a level with its compiled matcher.
type LevelMatcher struct {
	Level Level
	Match Matcher
}

// Matcher compiles the heading matcher for the level.
func (l Level) Matcher() (Matcher, error) {
	sc, ok := schemes[l.Numbering]
	if !ok {
		return nil, fmt.Errorf("level %d: unknown numbering %q", l.Depth, l.Numbering)
	}
	expr := "^" + prefixPattern(l.Prefix) + "(" + sc.pattern + ")" + regexp.QuoteMeta(l.Suffix)
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("level %d: compile matcher: %w", l.Depth, err)
	}

	return func(line string) (Match, bool) {
		loc := re.FindStringSubmatchIndex(line)
		if loc == nil || loc[3] <= loc[2] {
			return Match{}, false
		}
		end := loc[1]
		if !atBoundary(line[end:]) {
			return Match{}, false
		}
		return Match{
			Number: line[loc[2]:loc[3]],
			Full:   line[:end],
			Rest:   line[end:],
		}, true
	}, nil
}

// prefixPattern matches the prefix case-insensitively and lets any run of
// whitespace stand in for the spaces it contains.
func prefixPattern(prefix string) string {
	fields := strings.Fields(prefix)
	if len(fields) == 0 {
		return ""
	}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = regexp.QuoteMeta(f)
	}
	p := strings.Join(quoted, `\s+`)
	if last, _ := utf8.DecodeLastRuneInString(prefix); unicode.IsSpace(last) {
		p += `\s+`
	}
	return "(?i:" + p + ")"
}

const boundaryRunes = ":.-,;)–—"

func atBoundary(rest string) bool {
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsSpace(r) || strings.ContainsRune(boundaryRunes, r)
}
