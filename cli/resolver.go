package cli

import (
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/cfggen/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag values from
// the YAML mapping stored under key name.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve("config"), "/path/to/config.yaml")
//
// Flag names may be written with hyphens or underscores, and numbers may be
// written unquoted:
//
//	config:
//	  log_level: debug
//	  log-format: json
//	  pprof-mode: cpu
//
// Command-line flags override config file values. A file that is not valid
// YAML, or has no mapping under name, contributes nothing. Only the global
// flag groups are read; see [presets].
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		var doc map[string]any

		if err := yaml.Unmarshal(data, &doc); err != nil {
			log.Warn("ignoring configuration file",
				slog.String("namespace", name),
				slog.Any("error", err),
			)

			return config{}, nil
		}

		ns, ok := doc[name].(map[string]any)
		if !ok {
			return config{}, nil
		}

		cfg := make(config, len(ns))
		for key, val := range ns {
			cfg[key] = native(val)
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] for YAML configuration files.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	name := flag.Name

	if value, ok := r[name]; ok {
		return value, nil
	}

	// YAML keys conventionally use underscores.
	if value, ok := r[strings.ReplaceAll(name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// presetGroups are the flag groups a configuration file or the environment
// may preset. Command flags, in particular everything that shapes generated
// code, come only from the command line.
var presetGroups = []string{"log", "pprof"}

// presets restricts the resolver returned by load to flags in presetGroups.
func presets(load kong.ConfigurationLoader) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		res, err := load(r)
		if err != nil || res == nil {
			return res, err
		}

		return globalResolver{res}, nil
	}
}

// globalResolver hides every flag outside presetGroups from its Resolver.
type globalResolver struct{ kong.Resolver }

// Resolve implements [kong.Resolver].
func (g globalResolver) Resolve(
	ktx *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if !isPreset(flag) {
		return nil, nil
	}

	return g.Resolver.Resolve(ktx, parent, flag)
}

func isPreset(flag *kong.Flag) bool {
	return flag != nil && flag.Group != nil &&
		slices.Contains(presetGroups, flag.Group.Key)
}

// native converts a decoded YAML value into a form Kong can map onto a flag.
// Kong parses numbers from strings, so numeric scalars are formatted.
func native(v any) any {
	switch v := v.(type) {
	case uint64:
		return strconv.FormatUint(v, 10)

	case int64:
		return strconv.FormatInt(v, 10)

	case int:
		return strconv.Itoa(v)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = native(e)
		}

		return out

	default:
		return v
	}
}
