// Package transpile runs an external command to preprocess modules before
// their requires are rewritten.
package transpile

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"go.trai.ch/snaplink/internal/adapters/exclude"
	"go.trai.ch/snaplink/internal/core/domain"
	"go.trai.ch/snaplink/internal/core/ports"
	"go.trai.ch/zerr"
)

// FilePlaceholder is replaced with the module path in every command argument.
const FilePlaceholder = "{file}"

var inlineMapPattern = regexp.MustCompile(
	`\n?//[#@] sourceMappingURL=data:application/json(?:;charset=[\w-]+)?;base64,([A-Za-z0-9+/=]+)\s*$`,
)

var _ ports.Transpiler = (*Command)(nil)

// Command implements ports.Transpiler with os/exec.
type Command struct {
	argv    []string
	matcher *exclude.Matcher
	dir     string
	logger  ports.Logger
}

// New creates a Command for cfg. Modules are matched against cfg.Patterns
// relative to dir, which is also the working directory of the command.
// A nil Command is returned when no command is configured.
func New(cfg domain.TranspileConfig, dir string, logger ports.Logger) (*Command, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	matcher, err := exclude.New(cfg.Patterns)
	if err != nil {
		return nil, err
	}

	return &Command{
		argv:    cfg.Command,
		matcher: matcher,
		dir:     dir,
		logger:  logger,
	}, nil
}

// Transpile runs the command for modulePath. It returns nil when the module
// does not match the configured patterns or no command is configured.
func (c *Command) Transpile(ctx context.Context, modulePath string) (*domain.Transpiled, error) {
	if c == nil || !c.matches(modulePath) {
		return nil, nil
	}

	name := c.argv[0]
	args := make([]string, 0, len(c.argv)-1)
	for _, arg := range c.argv[1:] {
		args = append(args, strings.ReplaceAll(arg, FilePlaceholder, modulePath))
	}

	var stdout bytes.Buffer
	stderr := &logWriter{logger: c.logger, prefix: filepath.Base(name) + ": "}

	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // user provided command
	cmd.Dir = c.dir
	cmd.Env = os.Environ()
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	_ = stderr.Close()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err = zerr.Wrap(err, domain.ErrTranspileFailed.Error())
		err = zerr.With(err, "path", modulePath)
		return nil, zerr.With(err, "exit_code", exitCode)
	}

	return splitInlineMap(modulePath, stdout.String())
}

func (c *Command) matches(modulePath string) bool {
	if c.matcher.Empty() {
		return true
	}
	return c.matcher.MatchModule(domain.RelativeModulePath(c.dir, modulePath), modulePath)
}

// splitInlineMap strips a trailing inline source map comment from code and
// returns the decoded map alongside it.
func splitInlineMap(modulePath, code string) (*domain.Transpiled, error) {
	loc := inlineMapPattern.FindStringSubmatchIndex(code)
	if loc == nil || strings.TrimSpace(code[loc[1]:]) != "" {
		return &domain.Transpiled{Code: code}, nil
	}

	data, err := base64.StdEncoding.DecodeString(code[loc[2]:loc[3]])
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrTranspileFailed.Error()), "path", modulePath)
	}

	var sourceMap domain.SourceMap
	if err := json.Unmarshal(data, &sourceMap); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrTranspileFailed.Error()), "path", modulePath)
	}

	return &domain.Transpiled{Code: code[:loc[0]], Map: &sourceMap}, nil
}

// logWriter forwards each line the command writes to stderr as a warning.
type logWriter struct {
	logger ports.Logger
	prefix string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if msg == "" {
		return
	}
	w.logger.Warn(w.prefix + msg)
}
