package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cfggen/cli/cmd"
	"github.com/ardnew/cfggen/emit"
	"github.com/ardnew/cfggen/pkg"
)

// CLI is the top-level command-line interface for cfggen.
type CLI struct {
	Log   logConfig   `embed:"" envprefix:"CFGGEN_LOG_"   group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" envprefix:"CFGGEN_PPROF_" group:"pprof" prefix:"pprof-"`

	Init    cmd.Init    `cmd:"" help:"Initialize configuration file."`
	Check   cmd.Check   `cmd:"" help:"Validate a descriptor and report duplicates and collisions."`
	Dump    cmd.Dump    `cmd:"" help:"Print the parsed descriptor as JSON or YAML."`
	List    cmd.List    `cmd:"" help:"List entries with their derived identifiers."`
	Lookup  cmd.Lookup  `cmd:"" help:"Resolve a key as the generated lookup would."`
	Browse  cmd.Browse  `cmd:"" help:"Interactively browse descriptor keys."`
	Version cmd.Version `cmd:"" help:"Print version."`

	Gen cmd.Gen `cmd:"" default:"withargs" help:"Generate C declarations from a descriptor."`
}

// Run executes the cfggen CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	parser, err := cli.parser(ctx, exit)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// parser returns the Kong parser bound to cli. Environment variables and
// configuration files reach only the log and pprof groups, so generated
// output depends on the descriptor and command line alone.
func (cli *CLI) parser(ctx context.Context, exit func(code int)) (*kong.Kong, error) {
	// Nothing is created here: gen must work without a writable home.
	vars := kong.Vars{
		cmd.ConfigIdentifier: configPath(".yaml"),
		cmd.CacheIdentifier:  cacheDir(),
		"include":            emit.DefaultInclude,
		"record":             emit.DefaultRecord,
		"table":              emit.DefaultTable,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	opts := []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		vars,
	}

	return kong.New(cli, append(opts, configurations()...)...)
}
