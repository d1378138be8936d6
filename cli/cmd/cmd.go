package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/renameio/v2"

	"github.com/ardnew/cfggen/descriptor"
	"github.com/ardnew/cfggen/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable name, or fallback if the command runs
// without a kong context.
func kongVar(ctx context.Context, name, fallback string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return fallback
	}

	if v, ok := ktx.Model.Vars()[name]; ok {
		return v
	}

	return fallback
}

type stdioKey struct{}

type stdio struct {
	in  io.Reader
	out io.Writer
}

// WithStdio returns a new context.Context whose commands read standard input
// from in and write results to out. Nil values keep the process streams.
func WithStdio(ctx context.Context, in io.Reader, out io.Writer) context.Context {
	return context.WithValue(ctx, stdioKey{}, stdio{in: in, out: out})
}

func stdioFrom(ctx context.Context) stdio {
	s, _ := ctx.Value(stdioKey{}).(stdio)

	if s.in == nil {
		s.in = os.Stdin
	}

	if s.out == nil {
		s.out = os.Stdout
	}

	return s
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Input selects and parses the descriptor shared by every command.
type Input struct {
	Source string `arg:"" default:"-" help:"Descriptor file or '-' for stdin." name:"source" optional:""`
	Strict bool   `help:"Fail on duplicate keys and identifier collisions instead of warning."`
}

// open returns a reader over the descriptor. The caller closes it.
func (in *Input) open(ctx context.Context) (io.ReadCloser, error) {
	if in.Source == "" || in.Source == stdinSource {
		return io.NopCloser(stdioFrom(ctx).in), nil
	}

	file, err := os.Open(in.Source)
	if err != nil {
		return nil, ErrOpenSource.Wrap(err).
			With(slog.String("source", in.Source))
	}

	return file, nil
}

// load reads and parses the whole descriptor.
func (in *Input) load(ctx context.Context) (*descriptor.List, error) {
	r, err := in.open(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	name := in.Source
	if name == "" {
		name = stdinSource
	}

	return descriptor.Parse(ctx, r,
		descriptor.WithLogger(log.Default()),
		descriptor.WithName(name),
		descriptor.WithStrict(in.Strict),
	)
}

// writeOutput writes data to path, or to the context's standard output when
// path is empty or "-". Files are replaced atomically, so a reader never sees
// a partially written file.
func writeOutput(ctx context.Context, path string, data []byte) error {
	if path == "" || path == stdinSource {
		_, err := stdioFrom(ctx).out.Write(data)
		if err != nil {
			return ErrWriteOutput.Wrap(err).With(slog.String("output", stdinSource))
		}

		return nil
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("output", path))
	}

	defer func() {
		// No-op once the file has been committed.
		if err := pending.Cleanup(); err != nil {
			log.DebugContext(ctx, "cleanup pending output",
				slog.String("output", path),
				slog.Any("error", err),
			)
		}
	}()

	if _, err := pending.Write(data); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("output", path))
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("output", path))
	}

	log.DebugContext(ctx, "wrote output",
		slog.String("output", path),
		slog.Int("bytes", len(data)),
	)

	return nil
}
