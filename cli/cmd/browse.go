package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/cfggen/cli/cmd/browse"
	"github.com/ardnew/cfggen/log"
)

// Browse opens an interactive key browser over a descriptor.
type Browse struct {
	Input `embed:""`
}

// Run executes the browse command.
func (b *Browse) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	// The terminal needs standard input for keystrokes.
	if b.Source == "" || b.Source == stdinSource {
		return ErrNotInteractive
	}

	list, err := b.load(ctx)
	if err != nil {
		return err
	}

	return browse.Run(ctx, list, historyDir(ctx), log.Default())
}

// historyDir returns the cache directory for browse history, creating it on
// demand. It returns "" (history kept in memory) if the directory is unusable.
func historyDir(ctx context.Context) string {
	dir := kongVar(ctx, CacheIdentifier, "")
	if dir == "" {
		return ""
	}

	if err := os.MkdirAll(dir, configDirMode); err != nil {
		log.DebugContext(ctx, "history kept in memory",
			slog.String("cache_dir", dir),
			slog.Any("error", err),
		)

		return ""
	}

	return dir
}
