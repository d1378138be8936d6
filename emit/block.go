package emit

import (
	"bytes"
	"fmt"
	"strconv"
)

// Generated is the marker recognized by tools that skip generated files.
const Generated = "Code generated by cfggen. DO NOT EDIT."

// Header is the generated-code banner.
type Header struct {
	Entries int
	Digest  string
}

func (*Header) Kind() string { return "header" }

func (h *Header) Render(buf *bytes.Buffer) {
	noun := "entries"
	if h.Entries == 1 {
		noun = "entry"
	}

	fmt.Fprintf(buf, "/* %s */\n", Generated)
	fmt.Fprintf(buf, "/* descriptor: %d %s, xxh3 %s */\n", h.Entries, noun, h.Digest)
}

// Include references the system headers used by generated code and the
// external header declaring the value record and type constants.
type Include struct {
	System []string
	Local  string
}

func (*Include) Kind() string { return "include" }

func (in *Include) Render(buf *bytes.Buffer) {
	for _, h := range in.System {
		fmt.Fprintf(buf, "#include <%s>\n", h)
	}

	if isSystemHeader(in.Local) {
		fmt.Fprintf(buf, "#include %s\n", in.Local)
	} else {
		fmt.Fprintf(buf, "#include %q\n", in.Local)
	}
}

// Enum declares one identifier per entry. Ordinals are implicit, so the
// identifier at position i has value i.
type Enum struct {
	Identifiers []string
}

func (*Enum) Kind() string { return "enum" }

func (e *Enum) Render(buf *bytes.Buffer) {
	if len(e.Identifiers) == 0 {
		buf.WriteString("/* no configuration identifiers */\n")

		return
	}

	buf.WriteString("enum {\n")

	for _, id := range e.Identifiers {
		fmt.Fprintf(buf, "\t%s,\n", id)
	}

	buf.WriteString("};\n")
}

// Row is one value-table row.
type Row struct {
	Constant string
	Default  string
}

// Table declares the static value table, one row per entry in enumeration
// order.
type Table struct {
	Record string
	Name   string
	Rows   []Row
}

func (*Table) Kind() string { return "table" }

func (t *Table) Render(buf *bytes.Buffer) {
	if len(t.Rows) == 0 {
		buf.WriteString("/* no configuration values */\n")

		return
	}

	fmt.Fprintf(buf, "static const %s %s[] = {\n", t.Record, t.Name)

	for _, r := range t.Rows {
		fmt.Fprintf(buf, "\t{%s, %s},\n", r.Constant, r.Default)
	}

	buf.WriteString("};\n")
}

// Case pairs a lookup key with the identifier indexing its table row.
type Case struct {
	Key        string
	Identifier string
}

// quote returns s as a C string literal. Keys are restricted to characters
// that need no escaping.
func quote(s string) string { return strconv.Quote(s) }

// MacroLookup is a function-like macro expanding to a ternary chain. The
// first case whose key equals the argument selects its row; the chain ends in
// NULL.
type MacroLookup struct {
	Name  string
	Table string
	Cases []Case
}

func (*MacroLookup) Kind() string { return "lookup" }

func (m *MacroLookup) Render(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "#define %s(key) \\\n", m.Name)

	buf.WriteString("\t(")

	for i, c := range m.Cases {
		if i > 0 {
			buf.WriteString("\t ")
		}

		fmt.Fprintf(buf, "!strcmp ((key), %s) ? &%s[%s] : \\\n",
			quote(c.Key), m.Table, c.Identifier)
	}

	if len(m.Cases) > 0 {
		buf.WriteString("\t ")
	}

	buf.WriteString("NULL)\n")
}

// FuncLookup is a static function holding an if chain evaluated in entry
// order.
type FuncLookup struct {
	Name   string
	Record string
	Table  string
	Cases  []Case
}

func (*FuncLookup) Kind() string { return "lookup" }

func (f *FuncLookup) Render(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "static const %s *\n", f.Record)
	fmt.Fprintf(buf, "%s (const char *key)\n", f.Name)
	buf.WriteString("{\n")

	if len(f.Cases) == 0 {
		buf.WriteString("\t(void) key;\n")
	}

	for _, c := range f.Cases {
		fmt.Fprintf(buf, "\tif (!strcmp (key, %s))\n", quote(c.Key))
		fmt.Fprintf(buf, "\t\treturn &%s[%s];\n", f.Table, c.Identifier)
	}

	buf.WriteString("\treturn NULL;\n")
	buf.WriteString("}\n")
}

// BSearchLookup is a key table sorted by strcmp order and a static function
// searching it with bsearch(3). Cases must be sorted and hold one case per
// distinct key.
type BSearchLookup struct {
	Name   string
	Record string
	Table  string
	Cases  []Case
}

func (*BSearchLookup) Kind() string { return "lookup" }

func (b *BSearchLookup) Render(buf *bytes.Buffer) {
	var (
		entry   = b.Table + "_key"
		keys    = b.Table + "_keys"
		compare = b.Name + "_compare"
	)

	if len(b.Cases) == 0 {
		fmt.Fprintf(buf, "static const %s *\n", b.Record)
		fmt.Fprintf(buf, "%s (const char *key)\n", b.Name)
		buf.WriteString("{\n")
		buf.WriteString("\t(void) key;\n")
		buf.WriteString("\treturn NULL;\n")
		buf.WriteString("}\n")

		return
	}

	fmt.Fprintf(buf, "struct %s {\n", entry)
	buf.WriteString("\tconst char *key;\n")
	buf.WriteString("\tint index;\n")
	buf.WriteString("};\n\n")

	fmt.Fprintf(buf, "static const struct %s %s[] = {\n", entry, keys)

	for _, c := range b.Cases {
		fmt.Fprintf(buf, "\t{%s, %s},\n", quote(c.Key), c.Identifier)
	}

	buf.WriteString("};\n\n")

	buf.WriteString("static int\n")
	fmt.Fprintf(buf, "%s (const void *key, const void *elem)\n", compare)
	buf.WriteString("{\n")
	fmt.Fprintf(buf, "\treturn strcmp ((const char *) key, ((const struct %s *) elem)->key);\n", entry)
	buf.WriteString("}\n\n")

	fmt.Fprintf(buf, "static const %s *\n", b.Record)
	fmt.Fprintf(buf, "%s (const char *key)\n", b.Name)
	buf.WriteString("{\n")
	fmt.Fprintf(buf, "\tconst struct %s *found = bsearch (key, %s,\n", entry, keys)
	fmt.Fprintf(buf, "\t\tsizeof %s / sizeof %s[0], sizeof %s[0], %s);\n", keys, keys, keys, compare)
	buf.WriteString("\n")
	fmt.Fprintf(buf, "\treturn found ? &%s[found->index] : NULL;\n", b.Table)
	buf.WriteString("}\n")
}

// EntryPoint is a main function performing one lookup and printing whether
// the key was found.
type EntryPoint struct {
	Record string
	Lookup string
	Key    string
}

func (*EntryPoint) Kind() string { return "entrypoint" }

func (e *EntryPoint) Render(buf *bytes.Buffer) {
	key := quote(e.Key)

	buf.WriteString("int\n")
	buf.WriteString("main (void)\n")
	buf.WriteString("{\n")
	fmt.Fprintf(buf, "\tconst %s *v = %s (%s);\n", e.Record, e.Lookup, key)
	buf.WriteString("\n")
	fmt.Fprintf(buf, "\tprintf (\"%%s: %%s\\n\", %s, v ? \"found\" : \"not found\");\n", key)
	buf.WriteString("\treturn 0;\n")
	buf.WriteString("}\n")
}
