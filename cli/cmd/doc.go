// Package cmd implements the mimolu subcommands: eval, fmt, check, and init.
//
// Commands read the documents given by the global --source flag (or standard
// input) and the substitutions given by --define, both stored in the command
// context by the cli package. Documents are merged in order with
// [LoadSources].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
