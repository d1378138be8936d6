package descriptor

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/zeebo/xxh3"
)

// List is the ordered, validated sequence of descriptor entries.
//
// Position is load-bearing: the entry at index i is assigned enumeration
// ordinal i and occupies value-table row i. A List is never reordered or
// mutated after construction.
type List struct {
	entries []Entry
	first   map[string]int // key -> index of its first occurrence
	dups    []Duplicate
	clashes []Collision
}

// Duplicate records a key that occurs more than once. Lookups resolve to
// First; Later still occupies its own enumeration slot and table row.
type Duplicate struct {
	Key   string
	First int
	Later int
}

// LogValue implements slog.LogValuer.
func (d Duplicate) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("key", d.Key),
		slog.Int("first", d.First),
		slog.Int("later", d.Later),
	)
}

// Collision records two distinct keys whose derived identifiers are equal,
// e.g. "a.b" and "a_b".
type Collision struct {
	Identifier string
	First      int
	Later      int
}

// LogValue implements slog.LogValuer.
func (c Collision) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("identifier", c.Identifier),
		slog.Int("first", c.First),
		slog.Int("later", c.Later),
	)
}

// NewList validates entries and returns them as a List in the given order.
// The first invalid entry aborts construction.
func NewList(entries ...Entry) (*List, error) {
	l := &List{
		entries: make([]Entry, len(entries)),
		first:   make(map[string]int, len(entries)),
	}

	copy(l.entries, entries)

	ids := make(map[string]int, len(entries))

	for i, e := range l.entries {
		err := e.Validate()
		if err != nil {
			return nil, err
		}

		if j, ok := l.first[e.Key]; ok {
			l.dups = append(l.dups, Duplicate{Key: e.Key, First: j, Later: i})

			continue
		}

		l.first[e.Key] = i

		id := e.Identifier()
		if j, ok := ids[id]; ok {
			l.clashes = append(l.clashes, Collision{Identifier: id, First: j, Later: i})

			continue
		}

		ids[id] = i
	}

	return l, nil
}

// Len returns the number of entries.
func (l *List) Len() int {
	if l == nil {
		return 0
	}

	return len(l.entries)
}

// At returns the entry at index i. It panics if i is out of range.
func (l *List) At(i int) Entry { return l.entries[i] }

// All returns an iterator over the entries and their indices in order.
func (l *List) All() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		if l == nil {
			return
		}

		for i, e := range l.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Entries returns a copy of the entries in order.
func (l *List) Entries() []Entry {
	if l == nil {
		return nil
	}

	return append([]Entry(nil), l.entries...)
}

// Keys returns the distinct keys in order of first occurrence.
func (l *List) Keys() []string {
	keys := make([]string, 0, l.Len())

	for i, e := range l.All() {
		if l.first[e.Key] == i {
			keys = append(keys, e.Key)
		}
	}

	return keys
}

// Lookup resolves key the same way the generated lookup construct does: the
// first entry, in list order, whose key equals key wins. The returned index
// is the entry's enumeration ordinal and table row.
func (l *List) Lookup(key string) (index int, entry Entry, ok bool) {
	if l == nil {
		return -1, Entry{}, false
	}

	i, ok := l.first[key]
	if !ok {
		return -1, Entry{}, false
	}

	return i, l.entries[i], true
}

// Duplicates returns the repeated keys in order of their later occurrence.
func (l *List) Duplicates() []Duplicate {
	if l == nil {
		return nil
	}

	return append([]Duplicate(nil), l.dups...)
}

// Collisions returns distinct keys that derive the same identifier, in order
// of their later occurrence.
func (l *List) Collisions() []Collision {
	if l == nil {
		return nil
	}

	return append([]Collision(nil), l.clashes...)
}

// Digest returns a 64-bit xxh3 hash over the entries' key, type and default
// fields in order. Comments, whitespace and ignored trailing tokens do not
// contribute, so two descriptors with the same entries share a digest.
func (l *List) Digest() uint64 {
	var sb strings.Builder

	for _, e := range l.All() {
		sb.WriteString(e.Key)
		sb.WriteByte('\t')
		sb.WriteString(e.Type)
		sb.WriteByte('\t')
		sb.WriteString(e.Default)
		sb.WriteByte('\n')
	}

	return xxh3.HashString(sb.String())
}

// DigestString returns [List.Digest] formatted as 16 lowercase hex digits.
func (l *List) DigestString() string {
	return fmt.Sprintf("%016x", l.Digest())
}
