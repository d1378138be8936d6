package log

// Option adjusts a logger configuration. Options are applied in order, so a
// later option overrides an earlier one for the same setting; [Config] and
// [Logger.Wrap] accept them.
type Option func(config) config

// with returns c after applying opts.
func (c config) with(opts ...Option) config {
	for _, opt := range opts {
		c = opt(c)
	}

	return c
}
