package descriptor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/ardnew/cfggen/log"
)

func TestParseString_Counts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int // number of entries
	}{
		{
			name:  "empty input",
			input: "",
			want:  0,
		},
		{
			name:  "single entry",
			input: "x.y int 5\n",
			want:  1,
		},
		{
			name:  "no trailing newline",
			input: "x.y int 5",
			want:  1,
		},
		{
			name:  "two entries",
			input: "vmm.idman.password.algorithm int 2\nvmm.idman.password.length int 16\n",
			want:  2,
		},
		{
			name:  "comments only",
			input: "# one\n  # two\n\t#three\n",
			want:  0,
		},
		{
			name:  "comment then entry",
			input: "# comment\nx.y int 5\n",
			want:  1,
		},
		{
			name:  "extra tokens ignored",
			input: "x.y int 5 trailing words here\n",
			want:  1,
		},
		{
			name:  "crlf line endings",
			input: "a int 1\r\nb int 2\r\n",
			want:  2,
		},
		{
			name:  "byte order mark",
			input: "\uFEFFa int 1\n",
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := ParseString(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if list.Len() != tt.want {
				t.Errorf("expected %d entries, got %d", tt.want, list.Len())
			}
		})
	}
}

func TestParseString_Fields(t *testing.T) {
	input := strings.Join([]string{
		"# header comment",
		"vmm.idman.password.algorithm int 2",
		"   # indented comment",
		"vmm.idman.password.length\tint\t16   ignored",
		"Flag_Name bool true",
	}, "\n")

	list, err := ParseString(context.Background(), input)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	want := []Entry{
		{Key: "vmm.idman.password.algorithm", Type: "int", Default: "2", Line: 2},
		{Key: "vmm.idman.password.length", Type: "int", Default: "16", Line: 4},
		{Key: "Flag_Name", Type: "bool", Default: "true", Line: 5},
	}

	if diff := cmp.Diff(want, list.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestParseString_CommentsContributeNothing(t *testing.T) {
	withComments := "# a int 1\nx.y int 5\n# b int 2\n"
	without := "x.y int 5\n"

	a, err := ParseString(context.Background(), withComments)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	b, err := ParseString(context.Background(), without)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if a.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", a.Len())
	}

	if _, _, ok := a.Lookup("a"); ok {
		t.Error("commented key should not be present")
	}

	if a.Digest() != b.Digest() {
		t.Errorf("digest differs: %s != %s", a.DigestString(), b.DigestString())
	}
}

func TestParseString_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{name: "two tokens", input: "bad.line int", line: 1},
		{name: "one token", input: "a int 1\nlonely\n", line: 2},
		{name: "blank line", input: "a int 1\n\nb int 2\n", line: 2},
		{name: "whitespace only line", input: "a int 1\n \t \n", line: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := ParseString(context.Background(), tt.input)
			if err == nil {
				t.Fatalf("expected error, got %d entries", list.Len())
			}

			if !errors.Is(err, ErrMalformedEntry) {
				t.Fatalf("expected ErrMalformedEntry, got %v", err)
			}

			if list != nil {
				t.Error("expected nil list on error")
			}

			assertAttr(t, err, "line", int64(tt.line))
		})
	}
}

func TestParseString_InvalidIdentifierSource(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{name: "hyphen in key", input: "a-b int 1", field: "key"},
		{name: "slash in key", input: "a/b int 1", field: "key"},
		{name: "non-ascii key", input: "clé int 1", field: "key"},
		{name: "dot in type", input: "a unsigned.int 1", field: "type"},
		{name: "star in type", input: "a char* x", field: "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(context.Background(), tt.input)
			if !errors.Is(err, ErrInvalidIdentifierSource) {
				t.Fatalf("expected ErrInvalidIdentifierSource, got %v", err)
			}

			assertAttr(t, err, "field", tt.field)
		})
	}
}

func TestParseString_Duplicates(t *testing.T) {
	input := "a int 1\nb int 2\na int 3\n"

	var buf bytes.Buffer

	logger := log.Make(&buf,
		log.WithLevel(log.LevelWarn),
		log.WithPretty(false),
		log.WithTimeLayout("none"),
	)

	list, err := ParseString(context.Background(), input, WithLogger(logger))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if list.Len() != 3 {
		t.Fatalf("duplicate entries must keep their slot: got %d entries", list.Len())
	}

	i, e, ok := list.Lookup("a")
	if !ok || i != 0 || e.Default != "1" {
		t.Errorf("Lookup(a) = %d, %+v, %v; want first occurrence", i, e, ok)
	}

	if !strings.Contains(buf.String(), "duplicate key") {
		t.Errorf("expected duplicate key warning, got %q", buf.String())
	}

	_, err = ParseString(context.Background(), input, WithStrict(true))
	if !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("strict: expected ErrDuplicateKey, got %v", err)
	}
}

func TestParseString_IdentifierCollision(t *testing.T) {
	input := "a.b int 1\na_b int 2\n"

	list, err := ParseString(context.Background(), input)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if n := len(list.Collisions()); n != 1 {
		t.Fatalf("expected 1 collision, got %d", n)
	}

	_, err = ParseString(context.Background(), input, WithStrict(true))
	if !errors.Is(err, ErrIdentifierCollision) {
		t.Errorf("strict: expected ErrIdentifierCollision, got %v", err)
	}
}

func TestParseString_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseString(ctx, "a int 1\n")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestParse_ReadError(t *testing.T) {
	_, err := Parse(context.Background(), failingReader{}, WithName("broken"))
	if !errors.Is(err, ErrReadInput) {
		t.Fatalf("expected ErrReadInput, got %v", err)
	}

	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected wrapped cause, got %v", err)
	}

	assertAttr(t, err, "source", "broken")
}

func TestParse_ReleasesReader(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	if _, err := Parse(context.Background(), strings.NewReader("a int 1\n")); err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if _, err := Parse(context.Background(), failingReader{}); err == nil {
		t.Fatal("expected read error")
	}

	if _, err := Parse(context.Background(), strings.NewReader("a int\n")); err == nil {
		t.Fatal("expected malformed entry")
	}
}

func TestParse_Reader(t *testing.T) {
	input := "vmm.idman.password.algorithm int 2\nvmm.idman.password.length int 16\n"

	a, err := Parse(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	b, err := ParseString(context.Background(), input)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if diff := cmp.Diff(a.Entries(), b.Entries()); diff != "" {
		t.Errorf("reader and string parse differ (-reader +string):\n%s", diff)
	}
}

// assertAttr checks that err carries attribute key with value want.
func assertAttr(t *testing.T, err error, key string, want any) {
	t.Helper()

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}

	for _, a := range e.Attrs() {
		if a.Key == key {
			if got := a.Value.Any(); got != want {
				t.Errorf("attr %s = %v (%T), want %v (%T)", key, got, got, want, want)
			}

			return
		}
	}

	t.Errorf("attr %s not found in %v", key, e.Attrs())
}
