package emit

import (
	"iter"
	"log/slog"
	"strconv"
	"strings"
)

// Style selects the shape of the generated lookup construct.
type Style int

const (
	// StyleMacro emits a function-like macro expanding to a first-match
	// ternary chain.
	StyleMacro Style = iota
	// StyleFunc emits a static function holding a first-match if chain.
	StyleFunc
	// StyleBSearch emits a key table sorted at generation time and a static
	// function resolving keys with bsearch(3).
	StyleBSearch
)

// DefaultStyle is the lookup style used when none is selected.
const DefaultStyle = StyleMacro

func (s Style) String() string {
	switch s {
	case StyleMacro:
		return "macro"
	case StyleFunc:
		return "func"
	case StyleBSearch:
		return "bsearch"
	default:
		return "Style(" + strconv.Itoa(int(s)) + ")"
	}
}

// Styles returns an iterator over the names of all lookup styles.
func Styles() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, s := range []Style{StyleMacro, StyleFunc, StyleBSearch} {
			if !yield(s.String()) {
				return
			}
		}
	}
}

// ParseStyle parses the name of a lookup style, ignoring case.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "macro":
		return StyleMacro, nil
	case "func", "function":
		return StyleFunc, nil
	case "bsearch", "binary":
		return StyleBSearch, nil
	default:
		return DefaultStyle, ErrInvalidOption.With(
			slog.String("option", "style"),
			slog.String("value", s),
		)
	}
}

// defaultLookupName returns the lookup name conventional for the style:
// upper case for macros, lower case for functions.
func (s Style) defaultLookupName() string {
	if s == StyleMacro {
		return "CONFIG_LOOKUP"
	}

	return "config_lookup"
}
