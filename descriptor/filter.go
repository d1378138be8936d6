package descriptor

import (
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Row is the view of an entry exposed to filter expressions and to the
// JSON and YAML encodings of a [List].
//
// Field names are capitalized in expressions (Key, Type, ...) so they do not
// shadow expr-lang builtins such as type().
type Row struct {
	Index      int    `json:"index"      yaml:"index"      expr:"Index"`
	Key        string `json:"key"        yaml:"key"        expr:"Key"`
	Type       string `json:"type"       yaml:"type"       expr:"Type"`
	Default    string `json:"default"    yaml:"default"    expr:"Default"`
	Identifier string `json:"identifier" yaml:"identifier" expr:"Identifier"`
	Constant   string `json:"constant"   yaml:"constant"   expr:"Constant"`
	Line       int    `json:"line"       yaml:"line"       expr:"Line"`
}

// RowOf returns the row view of the entry at index.
func RowOf(index int, e Entry) Row {
	return Row{
		Index:      index,
		Key:        e.Key,
		Type:       e.Type,
		Default:    e.Default,
		Identifier: e.Identifier(),
		Constant:   e.TypeConstant(),
		Line:       e.Line,
	}
}

// Rows returns the row view of every entry in order.
func (l *List) Rows() []Row {
	rows := make([]Row, 0, l.Len())

	for i, e := range l.All() {
		rows = append(rows, RowOf(i, e))
	}

	return rows
}

// Filter is a compiled boolean expression over a [Row].
type Filter struct {
	source  string
	program *vm.Program
}

// CompileFilter compiles source into a [Filter]. An empty source matches every
// row.
//
// Example: `Type == "int" && Key startsWith "vmm."`.
func CompileFilter(source string) (*Filter, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return &Filter{}, nil
	}

	program, err := expr.Compile(source, expr.Env(Row{}), expr.AsBool())
	if err != nil {
		return nil, ErrInvalidFilter.Wrap(err).
			With(slog.String("source", source))
	}

	return &Filter{source: source, program: program}, nil
}

// String returns the filter source.
func (f *Filter) String() string { return f.source }

// Match reports whether row satisfies the filter.
func (f *Filter) Match(row Row) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}

	out, err := vm.Run(f.program, row)
	if err != nil {
		return false, ErrInvalidFilter.Wrap(err).
			With(slog.String("source", f.source), slog.Int("index", row.Index))
	}

	ok, _ := out.(bool)

	return ok, nil
}

// Select returns the rows of l matched by f, in list order. Indices are those
// of the full list, so a selected row still names its enumeration ordinal.
func (l *List) Select(f *Filter) ([]Row, error) {
	var rows []Row

	for i, e := range l.All() {
		row := RowOf(i, e)

		ok, err := f.Match(row)
		if err != nil {
			return nil, err
		}

		if ok {
			rows = append(rows, row)
		}
	}

	return rows, nil
}
