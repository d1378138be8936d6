package emit

import (
	"log/slog"
	"strings"

	"github.com/ardnew/cfggen/descriptor"
	"github.com/ardnew/cfggen/log"
)

// Defaults for the names referenced by generated code.
const (
	DefaultInclude  = "config_value.h"
	DefaultRecord   = "struct config_value"
	DefaultTable    = "value_list"
	DefaultSmokeKey = "example.key"
)

// ErrInvalidOption reports a name or path that cannot be embedded in
// generated code.
var ErrInvalidOption = descriptor.NewError("invalid emit option")

// Option configures [Build], [Render] and [Write].
type Option func(options) options

type options struct {
	logger     log.Logger
	include    string
	record     string
	table      string
	lookup     string
	style      Style
	smokeKey   string
	entryPoint bool
}

func makeOptions(opts ...Option) options {
	o := options{
		logger:     log.Discard(),
		include:    DefaultInclude,
		record:     DefaultRecord,
		table:      DefaultTable,
		style:      DefaultStyle,
		entryPoint: true,
	}

	for _, opt := range opts {
		o = opt(o)
	}

	if o.lookup == "" {
		o.lookup = o.style.defaultLookupName()
	}

	return o
}

// validate rejects option values that would corrupt the generated source.
func (o options) validate() error {
	include := o.include
	if isSystemHeader(include) {
		include = include[1 : len(include)-1]
	}

	if include == "" || strings.ContainsAny(include, "\"<>\\\r\n") {
		return invalid("include", o.include)
	}

	for _, word := range strings.Split(o.record, " ") {
		if !isCIdentifier(word) {
			return invalid("record", o.record)
		}
	}

	if !isCIdentifier(o.table) {
		return invalid("table", o.table)
	}

	if !isCIdentifier(o.lookup) {
		return invalid("lookup", o.lookup)
	}

	if o.smokeKey != "" {
		probe := descriptor.Entry{Key: o.smokeKey, Type: "smoke", Default: "0"}
		if probe.Validate() != nil {
			return invalid("smoke-key", o.smokeKey)
		}
	}

	return nil
}

func invalid(option, value string) error {
	return ErrInvalidOption.With(
		slog.String("option", option),
		slog.String("value", value),
	)
}

func isSystemHeader(path string) bool {
	return len(path) > 2 && path[0] == '<' && path[len(path)-1] == '>'
}

func isCIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}

// WithLogger sets the logger used for trace and debug messages.
func WithLogger(logger log.Logger) Option {
	return func(o options) options {
		o.logger = logger

		return o
	}
}

// WithInclude sets the header declaring the value record type and the
// CONFIG_TYPE_* constants. A path enclosed in angle brackets is included as a
// system header, any other path is quoted.
func WithInclude(path string) Option {
	return func(o options) options {
		if path != "" {
			o.include = path
		}

		return o
	}
}

// WithRecord sets the C type of a value-table row, e.g. "struct config_value"
// or a typedef name.
func WithRecord(record string) Option {
	return func(o options) options {
		if record = strings.Join(strings.Fields(record), " "); record != "" {
			o.record = record
		}

		return o
	}
}

// WithTable sets the name of the value table.
func WithTable(name string) Option {
	return func(o options) options {
		if name != "" {
			o.table = name
		}

		return o
	}
}

// WithLookupName sets the name of the lookup macro or function. By default
// macros are named CONFIG_LOOKUP and functions config_lookup.
func WithLookupName(name string) Option {
	return func(o options) options {
		o.lookup = name

		return o
	}
}

// WithStyle selects the lookup construct.
func WithStyle(style Style) Option {
	return func(o options) options {
		o.style = style

		return o
	}
}

// WithSmokeKey sets the key looked up by the generated entry point. By
// default the first entry's key is used, or [DefaultSmokeKey] when the list
// is empty.
func WithSmokeKey(key string) Option {
	return func(o options) options {
		o.smokeKey = key

		return o
	}
}

// WithEntryPoint controls whether the smoke-test main function is emitted.
func WithEntryPoint(enable bool) Option {
	return func(o options) options {
		o.entryPoint = enable

		return o
	}
}
