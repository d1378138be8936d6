package descriptor

import (
	"log/slog"
	"strings"
)

const (
	// IdentifierPrefix is prepended to every derived enumeration identifier.
	IdentifierPrefix = "CONFIG_"
	// TypeConstantPrefix is prepended to every derived type constant.
	TypeConstantPrefix = "CONFIG_TYPE_"
)

// Entry is one descriptor line: a configuration key, its type token and its
// default literal.
//
// Default is opaque. It is copied into generated code verbatim and never
// interpreted.
type Entry struct {
	Key     string
	Type    string
	Default string
	Line    int // 1-based descriptor line, zero if not parsed from text
}

// Identifier returns the enumeration identifier derived from the key:
// "CONFIG_" followed by the upper-cased key with '.' replaced by '_'.
func (e Entry) Identifier() string {
	return IdentifierPrefix + strings.ToUpper(strings.ReplaceAll(e.Key, ".", "_"))
}

// TypeConstant returns the type-tag constant derived from the type token:
// "CONFIG_TYPE_" followed by the upper-cased type.
func (e Entry) TypeConstant() string {
	return TypeConstantPrefix + strings.ToUpper(e.Type)
}

// LogValue implements slog.LogValuer.
func (e Entry) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("key", e.Key),
		slog.String("type", e.Type),
		slog.String("default", e.Default),
	}

	if e.Line > 0 {
		attrs = append(attrs, slog.Int("line", e.Line))
	}

	return slog.GroupValue(attrs...)
}

// Validate reports whether the key and type can be embedded in generated
// identifiers. Keys may contain ASCII letters, digits, '.' and '_'; types may
// contain ASCII letters, digits and '_'. Neither may be empty.
//
// The returned error is derived from [ErrInvalidIdentifierSource] or, for
// empty fields, [ErrMalformedEntry].
func (e Entry) Validate() error {
	if e.Key == "" || e.Type == "" || e.Default == "" {
		return ErrMalformedEntry.With(e.attrs()...)
	}

	if i := strings.IndexFunc(e.Key, invalidKeyRune); i >= 0 {
		return ErrInvalidIdentifierSource.With(
			append(e.attrs(), slog.String("field", "key"), slog.Int("offset", i))...)
	}

	if i := strings.IndexFunc(e.Type, invalidTypeRune); i >= 0 {
		return ErrInvalidIdentifierSource.With(
			append(e.attrs(), slog.String("field", "type"), slog.Int("offset", i))...)
	}

	return nil
}

func (e Entry) attrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 3)

	if e.Line > 0 {
		attrs = append(attrs, slog.Int("line", e.Line))
	}

	return append(attrs, slog.String("key", e.Key), slog.String("type", e.Type))
}

func isWord(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

func invalidKeyRune(r rune) bool { return r != '.' && !isWord(r) }

func invalidTypeRune(r rune) bool { return !isWord(r) }
