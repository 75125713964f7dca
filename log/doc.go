// Package log provides an immutable, concurrency-safe logger based on
// [log/slog], with a trace level below debug.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("document loaded", slog.Int("keys", 12))
//	logger.Error("load failed", log.Err(err))
//
// # Configuration
//
// A Logger is configured when it is made, using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a new Logger with some options overridden, and
// [Logger.With] derives one that adds attributes to every message.
//
// # Package-Level Logger
//
// The package-level functions ([Info], [Error], ...) write to a default
// Logger, reconfigured with [Config] or replaced with [SetDefault].
// Functions without a context argument use [DefaultContextProvider].
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON] are supported. Unless disabled
// with [WithPretty], both are colorized; pretty JSON is indented over
// multiple lines. Errors implementing [slog.LogValuer], such as those of
// package lang, are expanded into their structured attributes.
package log
