package descriptor

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  NewError("boom"),
			want: "boom",
		},
		{
			name: "wrapped",
			err:  NewError("boom").Wrap(io.EOF),
			want: "boom: EOF",
		},
		{
			name: "cause only",
			err:  WrapError(io.EOF),
			want: "EOF",
		},
		{
			name: "with attrs",
			err:  ErrMalformedEntry.With(slog.Int("line", 3), slog.String("content", "a b")),
			want: "malformed entry (line=3, content=a b)",
		},
		{
			name: "empty",
			err:  &Error{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	derived := ErrMalformedEntry.With(slog.Int("line", 1)).Wrap(io.EOF)

	if !errors.Is(derived, ErrMalformedEntry) {
		t.Error("derived error should match its sentinel")
	}

	if errors.Is(derived, ErrInvalidIdentifierSource) {
		t.Error("derived error should not match another sentinel")
	}

	if !errors.Is(derived, io.EOF) {
		t.Error("derived error should match its cause")
	}

	if errors.Is(WrapError(io.EOF), ErrReadInput) {
		t.Error("plain wrapped error has no sentinel")
	}

	if WrapError(derived) != derived {
		t.Error("WrapError should return an existing *Error")
	}
}

func TestError_With_Immutable(t *testing.T) {
	base := ErrDuplicateKey.With(slog.String("key", "a"))
	_ = base.With(slog.Int("line", 2))

	if n := len(base.Attrs()); n != 1 {
		t.Errorf("With mutated its receiver: %d attrs", n)
	}

	if n := len(ErrDuplicateKey.Attrs()); n != 0 {
		t.Errorf("sentinel gained attrs: %d", n)
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrReadInput.Wrap(io.ErrUnexpectedEOF).With(slog.String("source", "-"))

	got := map[string]string{}
	for _, a := range err.LogValue().Group() {
		got[a.Key] = a.Value.String()
	}

	want := map[string]string{
		"error":  "failed to read input",
		"cause":  "unexpected EOF",
		"source": "-",
	}

	for k, v := range want {
		if got[k] != v {
			t.Errorf("LogValue[%s] = %q, want %q", k, got[k], v)
		}
	}
}
