package descriptor

import "github.com/ardnew/cfggen/log"

// Option configures [Parse].
type Option func(options) options

type options struct {
	logger log.Logger
	strict bool
	name   string
}

func makeOptions(opts ...Option) options {
	o := options{logger: log.Discard(), name: "<input>"}

	for _, opt := range opts {
		o = opt(o)
	}

	return o
}

// WithLogger sets the logger used for trace and debug messages and for
// duplicate-key warnings.
func WithLogger(logger log.Logger) Option {
	return func(o options) options {
		o.logger = logger

		return o
	}
}

// WithStrict makes duplicate keys and identifier collisions fatal
// ([ErrDuplicateKey], [ErrIdentifierCollision]) instead of warnings.
func WithStrict(strict bool) Option {
	return func(o options) options {
		o.strict = strict

		return o
	}
}

// WithName sets the source name attached to diagnostics, typically a file
// path or "-" for standard input.
func WithName(name string) Option {
	return func(o options) options {
		if name != "" {
			o.name = name
		}

		return o
	}
}
