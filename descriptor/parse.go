package descriptor

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/klauspost/readahead"
)

// commentPrefix starts a comment line once leading whitespace is removed.
const commentPrefix = "#"

// fieldCount is the number of leading tokens that make up an entry.
const fieldCount = 3

var byteOrderMark = []byte("\uFEFF")

// Parse reads the descriptor from r to end of input and returns its entries
// in file order.
//
// Comment lines, whose first non-whitespace character is '#', are skipped.
// Every other line must hold at least three whitespace-separated tokens
// (key, type, default); further tokens are ignored. A line with fewer tokens,
// including a blank line, fails with [ErrMalformedEntry]. A key or type that
// cannot be embedded in a generated identifier fails with
// [ErrInvalidIdentifierSource].
//
// Duplicate keys are logged as warnings and kept, unless [WithStrict] is set.
func Parse(ctx context.Context, r io.Reader, opts ...Option) (*List, error) {
	o := makeOptions(opts...)

	// Read the whole descriptor before parsing; nothing is derived from a
	// partially read input.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", o.name))
	}

	o.logger.TraceContext(ctx, "read descriptor",
		slog.String("source", o.name),
		slog.Int("bytes", len(data)),
	)

	return parse(ctx, data, o)
}

// ParseString parses descriptor text held in memory.
func ParseString(ctx context.Context, source string, opts ...Option) (*List, error) {
	return parse(ctx, []byte(source), makeOptions(opts...))
}

func parse(ctx context.Context, data []byte, o options) (*List, error) {
	data = bytes.TrimPrefix(data, byteOrderMark)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(nil, max(len(data)+1, bufio.MaxScanTokenSize))

	var (
		entries  []Entry
		lineNo   int
		comments int
	)

	for scanner.Scan() {
		lineNo++

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, ok, err := parseLine(lineNo, scanner.Text())
		if err != nil {
			return nil, WrapError(err).With(slog.String("source", o.name))
		}

		if !ok {
			comments++

			continue
		}

		o.logger.TraceContext(ctx, "entry", slog.Any("entry", entry))

		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", o.name))
	}

	list, err := NewList(entries...)
	if err != nil {
		return nil, WrapError(err).With(slog.String("source", o.name))
	}

	err = report(ctx, list, o)
	if err != nil {
		return nil, err
	}

	o.logger.DebugContext(ctx, "parsed descriptor",
		slog.String("source", o.name),
		slog.Int("lines", lineNo),
		slog.Int("comments", comments),
		slog.Int("entries", list.Len()),
		slog.String("digest", list.DigestString()),
	)

	return list, nil
}

// parseLine returns the entry held by line, or ok == false for a comment.
func parseLine(lineNo int, line string) (entry Entry, ok bool, err error) {
	if strings.HasPrefix(strings.TrimSpace(line), commentPrefix) {
		return Entry{}, false, nil
	}

	fields := strings.Fields(line)
	if len(fields) < fieldCount {
		return Entry{}, false, ErrMalformedEntry.With(
			slog.Int("line", lineNo),
			slog.Int("tokens", len(fields)),
			slog.String("content", line),
		)
	}

	entry = Entry{
		Key:     fields[0],
		Type:    fields[1],
		Default: fields[2],
		Line:    lineNo,
	}

	return entry, true, entry.Validate()
}

// report logs duplicate keys and identifier collisions, or fails on the first
// one in strict mode.
func report(ctx context.Context, list *List, o options) error {
	for _, d := range list.Duplicates() {
		first, later := list.At(d.First), list.At(d.Later)

		if o.strict {
			return ErrDuplicateKey.With(
				slog.String("source", o.name),
				slog.String("key", d.Key),
				slog.Int("first_line", first.Line),
				slog.Int("line", later.Line),
			)
		}

		o.logger.WarnContext(ctx, "duplicate key, first occurrence wins lookup",
			slog.String("source", o.name),
			slog.String("key", d.Key),
			slog.Int("first_line", first.Line),
			slog.Int("line", later.Line),
		)
	}

	for _, c := range list.Collisions() {
		first, later := list.At(c.First), list.At(c.Later)

		if o.strict {
			return ErrIdentifierCollision.With(
				slog.String("source", o.name),
				slog.String("identifier", c.Identifier),
				slog.String("first_key", first.Key),
				slog.String("key", later.Key),
			)
		}

		o.logger.WarnContext(ctx, "distinct keys derive the same identifier",
			slog.String("source", o.name),
			slog.String("identifier", c.Identifier),
			slog.String("first_key", first.Key),
			slog.String("key", later.Key),
			slog.Int("line", later.Line),
		)
	}

	return nil
}
