package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// Not parallel: replaces the package-level logger.
func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithFormat(FormatJSON), WithPretty(false)))
	Config(WithLevel(LevelDebug))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
		msg   string
	}{
		{"Debug", Debug, "DEBUG", "debug message"},
		{"Info", Info, "INFO", "info message"},
		{"Warn", Warn, "WARN", "warn message"},
		{"Error", Error, "ERROR", "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn(tt.msg, slog.String("key", "value"))

			output := buf.String()
			if !strings.Contains(output, tt.msg) {
				t.Errorf("expected output to contain message %q, got: %s", tt.msg, output)
			}

			if !strings.Contains(output, `"level":"`+tt.level+`"`) {
				t.Errorf("expected output to contain level %q, got: %s", tt.level, output)
			}

			if !strings.Contains(output, `"key":"value"`) {
				t.Errorf("expected output to contain attribute, got: %s", output)
			}
		})
	}

	buf.Reset()
	TraceContext(t.Context(), "hidden")

	if buf.Len() != 0 {
		t.Errorf("trace message logged at debug level: %s", buf.String())
	}

	buf.Reset()
	With(slog.String("component", "repl")).Info("ready")

	if !strings.Contains(buf.String(), `"component":"repl"`) {
		t.Errorf("expected With attribute, got: %s", buf.String())
	}
}
