package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds the "did you mean" list printed on a miss.
const maxSuggestions = 3

// Lookup resolves a key the way the generated lookup construct does.
type Lookup struct {
	Key string `arg:"" help:"Key to resolve." name:"key"`

	Input `embed:""`
}

// Run executes the lookup command.
func (l *Lookup) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	list, err := l.load(ctx)
	if err != nil {
		return err
	}

	out := stdioFrom(ctx).out

	index, entry, ok := list.Lookup(l.Key)
	if !ok {
		keys := list.Keys()
		matches := fuzzy.Find(l.Key, keys)

		suggest := make([]string, 0, maxSuggestions)
		for _, m := range matches {
			if len(suggest) == maxSuggestions {
				break
			}

			suggest = append(suggest, m.Str)
		}

		fmt.Fprintf(out, "%s: NULL\n", l.Key)

		if len(suggest) > 0 {
			fmt.Fprintf(out, "did you mean: %s\n", strings.Join(suggest, ", "))
		}

		return ErrKeyNotFound.With(
			slog.String("key", l.Key),
			slog.Any("suggestions", suggest),
		)
	}

	_, err = fmt.Fprintf(out, "%s: %d %s %s %s (line %d)\n",
		entry.Key, index, entry.Identifier(), entry.TypeConstant(), entry.Default,
		entry.Line)

	return err
}
