// Package emit renders a [descriptor.List] as C source.
//
// A generated document is built from blocks in a fixed order:
//
//   - [Header]: the generated-code banner and the descriptor digest.
//   - [Include]: system headers and the external header declaring the value
//     record type and the CONFIG_TYPE_* constants.
//   - [Enum]: one identifier per entry with implicit ordinals.
//   - [Table]: one {type constant, default} row per entry.
//   - A lookup construct: [MacroLookup], [FuncLookup] or [BSearchLookup].
//   - [EntryPoint]: a main function performing one lookup.
//
// The enumeration and the table come from a single traversal of the list, so
// the identifier of entry i always indexes row i.
//
// [Render] serializes the whole document into memory before returning it,
// and [Write] hands it to the writer in one call. Failures never produce
// partial output.
package emit
