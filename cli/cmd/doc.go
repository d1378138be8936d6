// Package cmd implements the cfggen subcommands.
//
// Every command that reads a descriptor embeds [Input], which names the
// source file (or "-" for standard input) and the strict flag. Commands
// read standard streams through the context so they can be driven from
// tests with [WithStdio].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file, and the name of the namespace read from it.
	ConfigIdentifier = "config"
)
