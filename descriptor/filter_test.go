package descriptor

import (
	"context"
	"errors"
	"testing"
)

const filterInput = `vmm.idman.password.algorithm int 2
vmm.idman.password.length int 16
net.hostname str "localhost"
net.mtu uint 1500
`

func TestList_Select(t *testing.T) {
	list, err := ParseString(context.Background(), filterInput)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	tests := []struct {
		name   string
		filter string
		want   []int // indices
	}{
		{name: "empty matches all", filter: "", want: []int{0, 1, 2, 3}},
		{name: "by type", filter: `Type == "int"`, want: []int{0, 1}},
		{name: "by prefix", filter: `Key startsWith "net."`, want: []int{2, 3}},
		{name: "by index", filter: `Index > 2`, want: []int{3}},
		{name: "by identifier", filter: `Identifier endsWith "_LENGTH"`, want: []int{1}},
		{name: "by constant", filter: `Constant == "CONFIG_TYPE_STR"`, want: []int{2}},
		{name: "by default", filter: `Default == "1500" || Line == 1`, want: []int{0, 3}},
		{name: "none", filter: `false`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := CompileFilter(tt.filter)
			if err != nil {
				t.Fatalf("compile error: %v", err)
			}

			rows, err := list.Select(f)
			if err != nil {
				t.Fatalf("select error: %v", err)
			}

			if len(rows) != len(tt.want) {
				t.Fatalf("selected %d rows, want %d: %+v", len(rows), len(tt.want), rows)
			}

			for i, row := range rows {
				if row.Index != tt.want[i] {
					t.Errorf("row %d has index %d, want %d", i, row.Index, tt.want[i])
				}

				if row.Identifier != list.At(row.Index).Identifier() {
					t.Errorf("row %d identifier %q is not aligned", i, row.Identifier)
				}
			}
		})
	}
}

func TestCompileFilter_Invalid(t *testing.T) {
	for _, source := range []string{
		`Key ==`,
		`Unknown == 1`,
		`Index + 1`,
	} {
		t.Run(source, func(t *testing.T) {
			_, err := CompileFilter(source)
			if !errors.Is(err, ErrInvalidFilter) {
				t.Errorf("expected ErrInvalidFilter, got %v", err)
			}
		})
	}
}
