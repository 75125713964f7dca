package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/mimolu/lang"
	"github.com/ardnew/mimolu/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	sourceFilesKey struct{}
	definesKey     struct{}
	cacheKey       struct{}
	outputKey      struct{}
	inputKey       struct{}

	sourceFiles struct {
		paths []string
		stdin io.Reader
	}

	// SourceFiles is the ordered, deduplicated set of documents named on the
	// command line.
	SourceFiles interface {
		IsZero() bool
		Paths() []string
		Stdin() io.Reader
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.paths) == 0 && s.stdin == nil }

// Paths returns the resolved paths of the regular source files, in order.
func (s *sourceFiles) Paths() []string { return s.paths }

// Stdin returns the standard input reader if stdin was included as a source,
// or nil otherwise.
func (s *sourceFiles) Stdin() io.Reader { return s.stdin }

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// StdinSource is the special source indicator for reading from stdin.
const StdinSource = "-"

// WithSourceFiles returns a new context.Context containing the given source
// files.
//
// Paths naming the same file (by symlink, relative path, or device/inode) are
// kept only at their first occurrence. All occurrences of "-" are replaced
// with a single stdin source, which is read after all regular files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return withSourceFiles(ctx, buildSourceFiles(sources, stdinFrom(ctx)))
}

func withSourceFiles(ctx context.Context, srcs SourceFiles) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, srcs)
}

// buildSourceFiles constructs a SourceFiles from the given source paths,
// using stdin as the reader for "-".
func buildSourceFiles(sources []string, stdin io.Reader) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.paths = make([]string, 0, len(sources))
	seen := make(map[fileKey]struct{})

	var (
		stdinKey   fileKey
		stdinKnown bool
	)

	if file, ok := stdin.(*os.File); ok {
		if info, err := file.Stat(); err == nil {
			stdinKey, stdinKnown = makeFileKey(info)
		}
	}

	hasStdin := false

	for _, src := range sources {
		if src == StdinSource {
			hasStdin = true

			continue
		}

		path, key, ok := resolveUniqueFile(src, seen)
		if !ok {
			log.Warn("source unavailable", slog.String("source", src))

			continue
		}

		// Stdin may also be named by a device path such as /dev/stdin.
		if stdinKnown && key == stdinKey {
			hasStdin = true

			continue
		}

		srcs.paths = append(srcs.paths, path)
	}

	if hasStdin {
		srcs.stdin = stdin
	}

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// resolveUniqueFile resolves path to an absolute, symlink-free path if the
// file it names hasn't been seen before.
func resolveUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (resolved string, key fileKey, ok bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", key, false
	}

	resolved, err = filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", key, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", key, false
	}

	key, ok = makeFileKey(info)
	if !ok {
		return "", key, false
	}

	if _, exists := seen[key]; exists {
		return "", key, false
	}

	seen[key] = struct{}{}

	return resolved, key, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// SourceFilesFrom retrieves the source files stored in ctx by
// [WithSourceFiles]. Returns nil if none were stored.
func SourceFilesFrom(ctx context.Context) SourceFiles {
	s, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return s
}

// WithDefines returns a new context.Context containing the substitutions
// defined on the command line.
func WithDefines(ctx context.Context, subs lang.Substitutions) context.Context {
	return context.WithValue(ctx, definesKey{}, subs)
}

// DefinesFrom retrieves the substitutions stored in ctx by [WithDefines].
func DefinesFrom(ctx context.Context) lang.Substitutions {
	s, _ := ctx.Value(definesKey{}).(lang.Substitutions)

	return s
}

// WithCache returns a new context.Context containing a document cache shared
// by all loads of the command.
func WithCache(ctx context.Context, cache *lang.Cache) context.Context {
	return context.WithValue(ctx, cacheKey{}, cache)
}

// CacheFrom retrieves the cache stored in ctx by [WithCache], or a new empty
// cache if none was stored.
func CacheFrom(ctx context.Context) *lang.Cache {
	if c, ok := ctx.Value(cacheKey{}).(*lang.Cache); ok && c != nil {
		return c
	}

	return new(lang.Cache)
}

// WithOutput returns a new context.Context directing command output to w.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// OutputFrom retrieves the writer stored in ctx by [WithOutput], or
// os.Stdout if none was stored.
func OutputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// WithInput returns a new context.Context reading standard input from r.
func WithInput(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, inputKey{}, r)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(inputKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}
