// Package cli contains the command line interface for mimolu.
//
// # Usage
//
// Sources are loaded in the order given and merged, later keys replacing
// earlier ones. Substitutions may be bound on the command line:
//
//	mimolu -s base.mimolu -s site.mimolu -D 'Port=8080' eval host port
//
// With no --source, commands read standard input.
//
// # Configuration Loader
//
// Flag defaults are read from the configuration file in the user
// configuration directory (e.g. ~/.config/mimolu/config), itself written in
// MiMoLu syntax, and from config.json beside it. The init command generates
// the former from the current flag values:
//
//	log-level -> "debug";
//	source -> ["base.mimolu", "site.mimolu"];
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o mimolu .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/mimolu/pprof)
package cli
