package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/cfggen/descriptor"
	"github.com/ardnew/cfggen/emit"
	"github.com/ardnew/cfggen/pkg"
)

const descriptorText = `# network settings
net.port int 8080
net.host string localhost
log.level string info
`

// stdioContext returns a context whose commands read descriptorText from
// standard input and write to the returned buffer.
func stdioContext(t *testing.T, in string) (context.Context, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	return WithStdio(context.Background(), strings.NewReader(in), &out), &out
}

func writeDescriptor(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.desc")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestInputOpen(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		ctx, _ := stdioContext(t, descriptorText)

		list, err := (&Input{Source: "-"}).load(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}

		if list.Len() != 3 {
			t.Errorf("Len() = %d, want 3", list.Len())
		}
	})

	t.Run("file", func(t *testing.T) {
		path := writeDescriptor(t, descriptorText)

		list, err := (&Input{Source: path}).load(context.Background())
		if err != nil {
			t.Fatalf("load: %v", err)
		}

		if diff := cmp.Diff([]string{"net.port", "net.host", "log.level"}, list.Keys()); diff != "" {
			t.Errorf("keys mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := (&Input{Source: filepath.Join(t.TempDir(), "nope")}).load(context.Background())
		if !errors.Is(err, ErrOpenSource) {
			t.Errorf("error = %v, want %v", err, ErrOpenSource)
		}

		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want wrapped %v", err, os.ErrNotExist)
		}
	})

	t.Run("strict", func(t *testing.T) {
		ctx, _ := stdioContext(t, "a int 1\na int 2\n")

		_, err := (&Input{Source: "-", Strict: true}).load(ctx)
		if !errors.Is(err, descriptor.ErrDuplicateKey) {
			t.Errorf("error = %v, want %v", err, descriptor.ErrDuplicateKey)
		}
	})
}

func TestGenRun(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		ctx, out := stdioContext(t, descriptorText)

		if err := (&Gen{Input: Input{Source: "-"}}).Run(ctx); err != nil {
			t.Fatalf("Run: %v", err)
		}

		list, err := descriptor.ParseString(context.Background(), descriptorText)
		if err != nil {
			t.Fatal(err)
		}

		want, err := emit.Render(context.Background(), list)
		if err != nil {
			t.Fatal(err)
		}

		if diff := cmp.Diff(string(want), out.String()); diff != "" {
			t.Errorf("output mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("file", func(t *testing.T) {
		ctx, out := stdioContext(t, descriptorText)
		path := filepath.Join(t.TempDir(), "config_table.c")

		gen := &Gen{
			Input:  Input{Source: "-"},
			Output: path,
			Style:  "bsearch",
			Lookup: "find_value",
			NoMain: true,
		}

		if err := gen.Run(ctx); err != nil {
			t.Fatalf("Run: %v", err)
		}

		if out.Len() != 0 {
			t.Errorf("unexpected stdout: %q", out.String())
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}

		for _, want := range []string{"find_value (const char *key)", "bsearch ("} {
			if !bytes.Contains(data, []byte(want)) {
				t.Errorf("output missing %q", want)
			}
		}

		if bytes.Contains(data, []byte("main (void)")) {
			t.Error("output contains main despite NoMain")
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}

		if perm := info.Mode().Perm(); perm != 0o644 {
			t.Errorf("permissions = %o, want 644", perm)
		}
	})

	t.Run("invalid option leaves file untouched", func(t *testing.T) {
		ctx, _ := stdioContext(t, descriptorText)
		path := filepath.Join(t.TempDir(), "config_table.c")

		if err := os.WriteFile(path, []byte("previous"), 0o644); err != nil {
			t.Fatal(err)
		}

		err := (&Gen{Input: Input{Source: "-"}, Output: path, Table: "bad name"}).Run(ctx)
		if !errors.Is(err, emit.ErrInvalidOption) {
			t.Fatalf("error = %v, want %v", err, emit.ErrInvalidOption)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}

		if string(data) != "previous" {
			t.Errorf("file modified: %q", data)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		ctx, out := stdioContext(t, "a int\n")

		err := (&Gen{Input: Input{Source: "-"}}).Run(ctx)
		if !errors.Is(err, descriptor.ErrMalformedEntry) {
			t.Fatalf("error = %v, want %v", err, descriptor.ErrMalformedEntry)
		}

		if out.Len() != 0 {
			t.Errorf("partial output written: %q", out.String())
		}
	})
}

func TestCheckRun(t *testing.T) {
	ctx, out := stdioContext(t, "a.b int 1\na_b int 2\na.b int 3\n")

	if err := (&Check{Input: Input{Source: "-"}}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := out.String()
	for _, want := range []string{"entries: 3\n", "duplicates: 1\n", "collisions: 1\n", "xxh3: "} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestDumpRun(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		ctx, out := stdioContext(t, descriptorText)

		if err := (&Dump{Input: Input{Source: "-"}, Format: "json", Indent: 2}).Run(ctx); err != nil {
			t.Fatalf("Run: %v", err)
		}

		var doc struct {
			Entries int
			Rows    []descriptor.Row
		}

		if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out.String())
		}

		if doc.Entries != 3 || len(doc.Rows) != 3 {
			t.Errorf("entries = %d, rows = %d, want 3", doc.Entries, len(doc.Rows))
		}
	})

	t.Run("yaml", func(t *testing.T) {
		ctx, out := stdioContext(t, descriptorText)

		if err := (&Dump{Input: Input{Source: "-"}, Format: "yaml", Indent: 2}).Run(ctx); err != nil {
			t.Fatalf("Run: %v", err)
		}

		var doc map[string]any
		if err := yaml.Unmarshal(out.Bytes(), &doc); err != nil {
			t.Fatalf("invalid YAML: %v\n%s", err, out.String())
		}
	})

	t.Run("unknown", func(t *testing.T) {
		ctx, _ := stdioContext(t, descriptorText)

		err := (&Dump{Input: Input{Source: "-"}, Format: "toml"}).Run(ctx)
		if !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("error = %v, want %v", err, ErrUnknownFormat)
		}
	})
}

func TestListRun(t *testing.T) {
	tests := []struct {
		name    string
		filter  string
		want    []string
		wantErr error
	}{
		{
			name:   "all",
			filter: "",
			want:   []string{"CONFIG_NET_PORT", "CONFIG_NET_HOST", "CONFIG_LOG_LEVEL"},
		},
		{
			name:   "prefix",
			filter: `Key startsWith "net."`,
			want:   []string{"CONFIG_NET_PORT", "CONFIG_NET_HOST"},
		},
		{
			name:   "type",
			filter: `Type == "int"`,
			want:   []string{"CONFIG_NET_PORT"},
		},
		{
			name:    "invalid",
			filter:  `Key ==`,
			wantErr: ErrInvalidFilter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := stdioContext(t, descriptorText)

			err := (&List{Input: Input{Source: "-"}, Filter: tt.filter}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			var got []string
			for line := range strings.Lines(out.String()) {
				got = append(got, strings.Fields(line)[1])
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("identifiers mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLookupRun(t *testing.T) {
	t.Run("hit", func(t *testing.T) {
		ctx, out := stdioContext(t, descriptorText)

		if err := (&Lookup{Key: "net.host", Input: Input{Source: "-"}}).Run(ctx); err != nil {
			t.Fatalf("Run: %v", err)
		}

		want := "net.host: 1 CONFIG_NET_HOST CONFIG_TYPE_STRING localhost (line 3)\n"
		if got := out.String(); got != want {
			t.Errorf("output = %q, want %q", got, want)
		}
	})

	t.Run("miss", func(t *testing.T) {
		ctx, out := stdioContext(t, descriptorText)

		err := (&Lookup{Key: "nethost", Input: Input{Source: "-"}}).Run(ctx)
		if !errors.Is(err, ErrKeyNotFound) {
			t.Fatalf("error = %v, want %v", err, ErrKeyNotFound)
		}

		got := out.String()
		if !strings.HasPrefix(got, "nethost: NULL\n") {
			t.Errorf("output = %q, want NULL line", got)
		}

		if !strings.Contains(got, "did you mean: net.host") {
			t.Errorf("output missing suggestion: %q", got)
		}
	})
}

func TestVersionRun(t *testing.T) {
	ctx, out := stdioContext(t, "")

	if err := (Version{}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := pkg.Name + " " + pkg.Version() + "\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	out.Reset()

	if err := (Version{Authors: true}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want += pkg.Author[0].String() + "\n"
	if got := out.String(); !strings.HasPrefix(got, want) {
		t.Errorf("output = %q, want prefix %q", got, want)
	}
}

func TestBrowseRejectsStdin(t *testing.T) {
	ctx, _ := stdioContext(t, descriptorText)

	err := (&Browse{Input: Input{Source: "-"}}).Run(ctx)
	if !errors.Is(err, ErrNotInteractive) {
		t.Errorf("error = %v, want %v", err, ErrNotInteractive)
	}
}

func TestInitRun(t *testing.T) {
	tests := []struct {
		name    string
		dir     string
		force   bool
		exists  bool
		noDir   bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "create_missing_directory", dir: filepath.Join("xdg", "cfggen")},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
		{name: "fail_without_config_dir", noDir: true, wantErr: ErrNoConfigDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), tt.dir, "config.yaml")
			if tt.noDir {
				confPath = ""
			}

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing content"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			var cli struct {
				Level string `default:"info"`
				Init  Init   `cmd:""`
				Gen   Gen    `cmd:""`
			}

			parser, err := kong.New(&cli, kong.Vars{
				ConfigIdentifier: confPath,
				"include":        emit.DefaultInclude,
				"record":         emit.DefaultRecord,
				"table":          emit.DefaultTable,
			})
			if err != nil {
				t.Fatal(err)
			}

			ktx, err := parser.Parse([]string{"init"})
			if err != nil {
				t.Fatal(err)
			}

			ctx := WithContext(context.Background(), ktx)

			err = (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var doc map[string]map[string]any
			if err := yaml.Unmarshal(data, &doc); err != nil {
				t.Fatalf("invalid YAML: %v\n%s", err, data)
			}

			// Generation flags never appear: configuration cannot preset them.
			want := map[string]any{"level": "info"}

			if diff := cmp.Diff(want, doc[ConfigIdentifier]); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHistoryDir(t *testing.T) {
	newContext := func(t *testing.T, dir string) context.Context {
		t.Helper()

		var cli struct {
			Browse Browse `cmd:""`
		}

		parser, err := kong.New(&cli, kong.Vars{CacheIdentifier: dir})
		if err != nil {
			t.Fatal(err)
		}

		ktx, err := parser.Parse([]string{"browse", "x"})
		if err != nil {
			t.Fatal(err)
		}

		return WithContext(context.Background(), ktx)
	}

	t.Run("creates_directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "cache", "cfggen")

		if got := historyDir(newContext(t, dir)); got != dir {
			t.Fatalf("historyDir = %q, want %q", got, dir)
		}

		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("cache directory not created: %v", err)
		}
	})

	t.Run("unusable_directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, nil, 0o644); err != nil {
			t.Fatal(err)
		}

		if got := historyDir(newContext(t, filepath.Join(file, "cfggen"))); got != "" {
			t.Errorf("historyDir = %q, want in-memory history", got)
		}
	})
}
