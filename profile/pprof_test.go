//go:build pprof

package profile

import (
	"slices"
	"testing"
)

func TestModesPprof(t *testing.T) {
	for _, m := range []string{"cpu", "heap", "trace"} {
		if !slices.Contains(Modes(), m) {
			t.Errorf("Modes() missing %q", m)
		}
	}
}

func TestUnknownModeIgnored(t *testing.T) {
	s := Profiler{Mode: "bogus"}.Start()
	if _, ok := s.(ignore); !ok {
		t.Fatalf("Start() = %T, want no-op", s)
	}
}
