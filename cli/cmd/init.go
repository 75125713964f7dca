package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/mimolu/lang"
	"github.com/ardnew/mimolu/log"
	"github.com/ardnew/mimolu/pkg"
	"github.com/ardnew/mimolu/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// configHeader introduces a generated configuration file.
const configHeader = `# %s configuration
#
# Each key is the name of a command-line flag; flags given on the command
# line override the values bound here.

`

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.With(slog.String("issue", "no command context"))
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		return ErrWriteConfig.With(slog.String("issue", "configuration path undefined"))
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	m := i.buildMapping(ktx)

	if _, err := fmt.Fprintf(file, configHeader, pkg.Name); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	err = m.Format(ctx, file, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
		slog.Int("key_count", len(m)),
	)

	return nil
}

// buildMapping binds the name of each configurable flag to its current value.
func (i *Init) buildMapping(ktx *kong.Context) lang.Mapping {
	m := make(lang.Mapping)

	prefixIgnore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v, ok := flagValue(ktx.FlagValue(flag)); ok {
			m[flag.Name] = v
		}
	}

	return m
}

// flagValue converts a flag value to a MiMoLu value. It reports false for
// unset flags.
func flagValue(val any) (lang.Value, bool) {
	switch v := val.(type) {
	case nil:
		return lang.Value{}, false

	case bool:
		return lang.Text(strconv.FormatBool(v)), true

	case string:
		return lang.Text(v), v != ""

	case int:
		return lang.Int(int64(v)), true

	case int8:
		return lang.Int(int64(v)), true

	case int16:
		return lang.Int(int64(v)), true

	case int32:
		return lang.Int(int64(v)), true

	case int64:
		return lang.Int(v), true

	case uint:
		return uintValue(uint64(v))

	case uint8:
		return uintValue(uint64(v))

	case uint16:
		return uintValue(uint64(v))

	case uint32:
		return uintValue(uint64(v))

	case uint64:
		return uintValue(v)

	case []string:
		elems := make([]lang.Value, len(v))
		for i, s := range v {
			elems[i] = lang.Text(s)
		}

		return listValue(elems)

	case []int:
		elems := make([]lang.Value, len(v))
		for i, n := range v {
			elems[i] = lang.Int(int64(n))
		}

		return listValue(elems)

	case []int64:
		elems := make([]lang.Value, len(v))
		for i, n := range v {
			elems[i] = lang.Int(n)
		}

		return listValue(elems)

	default:
		return lang.Text(fmt.Sprint(v)), true
	}
}

func uintValue(u uint64) (lang.Value, bool) {
	if u > math.MaxInt64 {
		return lang.Text(strconv.FormatUint(u, 10)), true
	}

	return lang.Int(int64(u)), true
}

// listValue returns the value of a repeated flag: nothing if empty, the sole
// element if it has one, or an Array otherwise.
func listValue(elems []lang.Value) (lang.Value, bool) {
	switch len(elems) {
	case 0:
		return lang.Value{}, false

	case 1:
		return elems[0], true

	default:
		return lang.Array(elems...), true
	}
}
