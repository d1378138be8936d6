// Package cli contains the command line interface for cfggen.
//
// # Usage
//
// With no subcommand, cfggen generates C declarations from a descriptor:
//
//	cfggen settings.desc -o config_table.c
//	cfggen --style=bsearch --lookup=find_setting < settings.desc
//
// Other subcommands inspect a descriptor without generating code:
//
//	cfggen check settings.desc
//	cfggen list --filter 'Key startsWith "net."' settings.desc
//	cfggen lookup net.port settings.desc
//	cfggen dump --format yaml settings.desc
//	cfggen browse settings.desc
//
// # Configuration
//
// Logging and profiling flag defaults are read, in order of increasing
// precedence, from $XDG_CONFIG_HOME/cfggen/config.json, the "config" mapping
// of $XDG_CONFIG_HOME/cfggen/config.yaml, and the CFGGEN_LOG_* and
// CFGGEN_PPROF_* environment variables. Command-line flags override all of
// them. Command flags such as --style or --table come from the command line
// only, so the same descriptor and arguments always generate the same bytes.
//
// A missing or unreadable configuration directory means no configuration.
// cfggen creates no directories at startup: "cfggen init" creates the
// configuration directory to write a starting config.yaml, and "cfggen
// browse" creates the cache directory for its history.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// Logs are written to standard error so generated code on standard output
// stays clean.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o cfggen .
//
//   - --pprof-mode: Enable profiling (see [profile.Modes])
//   - --pprof-dir: Set profile output directory
package cli
