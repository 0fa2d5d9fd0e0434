package hierarchy

import (
	"fmt"
	"strconv"
	"strings"
)

// Numbering names the numeral style a level uses for its section numbers.
type Numbering string

const (
	Roman      Numbering = "roman"
	Numeric    Numbering = "numeric"
	AlphaUpper Numbering = "alphaUpper"
	AlphaLower Numbering = "alphaLower"
)

// numberingScheme carries everything a matcher needs for one variant.
type numberingScheme struct {
	pattern string
	parse   func(string) (int, error)
}

var schemes = map[Numbering]numberingScheme{
	// Uppercase only, so "(i)" stays available to alphaLower levels.
	Roman: {
		pattern: `M{0,3}(?:CM|CD|D?C{0,3})(?:XC|XL|L?X{0,3})(?:IX|IV|V?I{0,3})`,
		parse:   parseRoman,
	},
	Numeric: {
		pattern: `[0-9]+`,
		parse:   strconv.Atoi,
	},
	AlphaUpper: {
		pattern: `[A-Z]`,
		parse:   parseLetter,
	},
	AlphaLower: {
		pattern: `[a-z]`,
		parse:   parseLetter,
	},
}

// Valid reports whether n is one of the recognized variants.
func (n Numbering) Valid() bool {
	_, ok := schemes[n]
	return ok
}

// ParseNumber converts number text in this style to its integer value.
func (n Numbering) ParseNumber(s string) (int, error) {
	sc, ok := schemes[n]
	if !ok {
		return 0, fmt.Errorf("unknown numbering %q", n)
	}
	return sc.parse(s)
}

var romanValues = map[byte]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

func parseRoman(s string) (int, error) {
	s = strings.ToUpper(s)
	if s == "" {
		return 0, fmt.Errorf("empty roman numeral")
	}
	total := 0
	for i := 0; i < len(s); i++ {
		v, ok := romanValues[s[i]]
		if !ok {
			return 0, fmt.Errorf("invalid roman numeral %q", s)
		}
		if i+1 < len(s) && romanValues[s[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	return total, nil
}

func parseLetter(s string) (int, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("invalid letter number %q", s)
	}
	c := s[0]
	switch {
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 1, nil
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 1, nil
	}
	return 0, fmt.Errorf("invalid letter number %q", s)
}
