package emit

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/cfggen/descriptor"
)

// Block is one top-level declaration group of a generated document.
type Block interface {
	// Kind identifies the block in diagnostics.
	Kind() string
	// Render appends the block's source text, ending in a newline.
	Render(buf *bytes.Buffer)
}

// Document is the ordered list of blocks generated from a descriptor.
type Document struct {
	Blocks []Block
}

// Render serializes the document. Blocks are separated by one blank line.
func (d *Document) Render(buf *bytes.Buffer) {
	for i, b := range d.Blocks {
		if i > 0 {
			buf.WriteByte('\n')
		}

		b.Render(buf)
	}
}

// Bytes returns the serialized document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer

	d.Render(&buf)

	return buf.Bytes()
}

// Build converts list into a document: header, includes, enumeration, value
// table, lookup construct and, unless disabled, the entry point.
//
// Every entry is validated again, so a list assembled without the parser
// cannot place an unsafe key or type into generated code. The enumeration and
// the value table are produced by the same traversal of list, which keeps
// ordinal i and row i bound to entry i.
func Build(ctx context.Context, list *descriptor.List, opts ...Option) (*Document, error) {
	o := makeOptions(opts...)

	err := o.validate()
	if err != nil {
		return nil, err
	}

	enum := &Enum{}
	table := &Table{Record: o.record, Name: o.table}
	cases := make([]Case, 0, list.Len())

	for i, e := range list.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		err := e.Validate()
		if err != nil {
			return nil, descriptor.WrapError(err).With(slog.Int("index", i))
		}

		id := e.Identifier()

		enum.Identifiers = append(enum.Identifiers, id)
		table.Rows = append(table.Rows, Row{Constant: e.TypeConstant(), Default: e.Default})
		cases = append(cases, Case{Key: e.Key, Identifier: id})
	}

	includes := &Include{Local: o.include}
	if o.entryPoint {
		includes.System = append(includes.System, "stdio.h")
	}

	if o.style == StyleBSearch {
		includes.System = append(includes.System, "stdlib.h")
	}

	includes.System = append(includes.System, "string.h")

	doc := &Document{
		Blocks: []Block{
			&Header{Entries: list.Len(), Digest: list.DigestString()},
			includes,
			enum,
			table,
			newLookup(o, cases),
		},
	}

	if o.entryPoint {
		key := o.smokeKey
		if key == "" {
			key = DefaultSmokeKey
			if list.Len() > 0 {
				key = list.At(0).Key
			}
		}

		doc.Blocks = append(doc.Blocks, &EntryPoint{
			Record: o.record,
			Lookup: o.lookup,
			Key:    key,
		})
	}

	names := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		names = append(names, b.Kind())
	}

	o.logger.DebugContext(ctx, "built document",
		slog.Int("entries", list.Len()),
		slog.String("style", o.style.String()),
		slog.String("blocks", strings.Join(names, ",")),
	)

	return doc, nil
}

func newLookup(o options, cases []Case) Block {
	switch o.style {
	case StyleFunc:
		return &FuncLookup{
			Name:   o.lookup,
			Record: o.record,
			Table:  o.table,
			Cases:  cases,
		}

	case StyleBSearch:
		return &BSearchLookup{
			Name:   o.lookup,
			Record: o.record,
			Table:  o.table,
			Cases:  sortedCases(cases),
		}

	default:
		return &MacroLookup{
			Name:  o.lookup,
			Table: o.table,
			Cases: cases,
		}
	}
}

// sortedCases returns cases ordered by key, keeping only the first occurrence
// of each key so a binary search resolves like the first-match chain.
func sortedCases(cases []Case) []Case {
	seen := make(map[string]bool, len(cases))
	out := make([]Case, 0, len(cases))

	for _, c := range cases {
		if seen[c.Key] {
			continue
		}

		seen[c.Key] = true

		out = append(out, c)
	}

	slices.SortFunc(out, func(a, b Case) int {
		return strings.Compare(a.Key, b.Key)
	})

	return out
}

// Render builds and serializes the document for list. Nothing is returned
// unless the whole document rendered.
func Render(ctx context.Context, list *descriptor.List, opts ...Option) ([]byte, error) {
	doc, err := Build(ctx, list, opts...)
	if err != nil {
		return nil, err
	}

	return doc.Bytes(), nil
}

// Write renders the document for list and writes it to w with a single call
// to w.Write. On error nothing is written.
func Write(ctx context.Context, w io.Writer, list *descriptor.List, opts ...Option) error {
	data, err := Render(ctx, list, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
