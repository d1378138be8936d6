package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/cfggen/log"
)

// Check parses and validates a descriptor without generating code.
type Check struct {
	Input `embed:""`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	list, err := c.load(ctx)
	if err != nil {
		return err
	}

	dups, clashes := len(list.Duplicates()), len(list.Collisions())

	log.DebugContext(ctx, "checked descriptor",
		slog.String("source", c.Source),
		slog.Int("entries", list.Len()),
		slog.Int("duplicates", dups),
		slog.Int("collisions", clashes),
	)

	_, err = fmt.Fprintf(stdioFrom(ctx).out,
		"entries: %d\nduplicates: %d\ncollisions: %d\nxxh3: %s\n",
		list.Len(), dups, clashes, list.DigestString())

	return err
}
