package cmd

import (
	"context"
	"log/slog"
)

// Dump prints the parsed descriptor with its derived identifiers.
type Dump struct {
	Input `embed:""`

	Format string `default:"json" enum:"json,yaml" help:"Output format (${enum})."      short:"F"`
	Indent int    `default:"2"                     help:"Indent width, 0 for compact." short:"i"`
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	list, err := d.load(ctx)
	if err != nil {
		return err
	}

	out := stdioFrom(ctx).out

	switch d.Format {
	case "json":
		return list.FormatJSON(ctx, out, d.Indent)

	case "yaml":
		return list.FormatYAML(ctx, out, d.Indent)

	default:
		return ErrUnknownFormat.With(slog.String("format", d.Format))
	}
}
