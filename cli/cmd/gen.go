package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/cfggen/emit"
	"github.com/ardnew/cfggen/log"
)

// Gen generates C declarations from a descriptor.
type Gen struct {
	Input `embed:""`

	Output   string `default:"-"          help:"Output file or '-' for stdout."                             placeholder:"FILE"   short:"o" type:"path"`
	Include  string `default:"${include}" help:"Header declaring the value record and type constants."      placeholder:"HEADER"`
	Record   string `default:"${record}"  help:"C type of a value-table row."                               placeholder:"TYPE"`
	Table    string `default:"${table}"   help:"Name of the value table."                                   placeholder:"NAME"`
	Lookup   string `                     help:"Name of the lookup construct (default depends on --style)." placeholder:"NAME"`
	Style    string `default:"macro"      help:"Lookup construct (${enum})."                                                              enum:"macro,func,bsearch"`
	SmokeKey string `                     help:"Key looked up by the generated main (default: first key)." placeholder:"KEY"`
	NoMain   bool   `                     help:"Omit the generated main function."`
}

// Run executes the gen command.
func (g *Gen) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	list, err := g.load(ctx)
	if err != nil {
		return err
	}

	style, err := emit.ParseStyle(g.Style)
	if err != nil {
		return err
	}

	data, err := emit.Render(ctx, list,
		emit.WithLogger(log.Default()),
		emit.WithInclude(g.Include),
		emit.WithRecord(g.Record),
		emit.WithTable(g.Table),
		emit.WithLookupName(g.Lookup),
		emit.WithStyle(style),
		emit.WithSmokeKey(g.SmokeKey),
		emit.WithEntryPoint(!g.NoMain),
	)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "generated",
		slog.String("source", g.Source),
		slog.String("output", g.Output),
		slog.Int("entries", list.Len()),
		slog.Int("bytes", len(data)),
	)

	return writeOutput(ctx, g.Output, data)
}
