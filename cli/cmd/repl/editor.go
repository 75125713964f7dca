package repl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/mimolu/log"
	"github.com/ardnew/mimolu/pkg"
)

const defaultEditor = "vi"

// ErrEditDeclined is returned when the user declines to re-edit a document
// that failed to load.
var ErrEditDeclined = errors.New("decline edit")

// editCommand implements [tea.ExecCommand] for the edit-load-retry loop. It
// formats the session mapping to a temp file, opens the user's editor, and
// loads the result into the session. On error the user is prompted to
// re-edit; declining exits the program.
type editCommand struct {
	session *Session
	ctxFunc func() context.Context
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	changed bool
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-load-retry loop. An emptied file cancels the edit
// and leaves the session unchanged.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := c.session.Format(ctx, &buf); err != nil {
		return fmt.Errorf("format session: %w", err)
	}

	f, err := os.CreateTemp(os.TempDir(), pkg.Name+"-repl-*.mimolu")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := buf.Bytes()

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		content, err = c.edit(ctx, path)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(content)) == 0 {
			return nil
		}

		loadErr := c.session.Replace(ctx, string(content))

		c.logger.TraceContext(ctx, "editor load attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", loadErr == nil),
		)

		if loadErr == nil {
			c.changed = true

			return nil
		}

		fmt.Fprintf(c.stderr, "\nerror: %s\n", loadErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// edit launches the user's editor on path and returns the edited content.
func (c *editCommand) edit(ctx context.Context, path string) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
