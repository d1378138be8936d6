package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/ardnew/cfggen/descriptor"
	"github.com/ardnew/cfggen/log"
)

// List prints one line per entry: index, identifier, type constant and
// default.
type List struct {
	Input `embed:""`

	Filter string `help:"Boolean expression selecting rows, e.g. 'Type == \"int\" && Key startsWith \"net.\"'." placeholder:"EXPR" short:"e"`
}

// Run executes the list command.
func (l *List) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	filter, err := descriptor.CompileFilter(l.Filter)
	if err != nil {
		return ErrInvalidFilter.Wrap(err)
	}

	list, err := l.load(ctx)
	if err != nil {
		return err
	}

	rows, err := list.Select(filter)
	if err != nil {
		return ErrInvalidFilter.Wrap(err)
	}

	log.DebugContext(ctx, "selected rows",
		slog.String("filter", filter.String()),
		slog.Int("entries", list.Len()),
		slog.Int("rows", len(rows)),
	)

	tw := tabwriter.NewWriter(stdioFrom(ctx).out, 0, 0, 2, ' ', 0)

	for _, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			row.Index, row.Identifier, row.Constant, row.Default)
	}

	return tw.Flush()
}
