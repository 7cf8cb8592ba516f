package logger_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/snaplink/internal/adapters/logger"
	"go.trai.ch/snaplink/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer with colors disabled.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	t.Setenv(logger.FormatEnv, "")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Info(t *testing.T) {
	tests := []struct {
		name       string
		msg        string
		goldenName string
	}{
		{name: "simple message", msg: "wrote snapshot.js", goldenName: "info_basic"},
		{name: "multiline message", msg: "line1\nline2", goldenName: "info_multiline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Info(tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Warn("main module does not exist yet")

	g := goldie.New(t)
	g.Assert(t, "warn_basic", buf.Bytes())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "standard error",
			err:        os.ErrPermission,
			goldenName: "error_simple",
		},
		{
			name: "zerr chain",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("unexpected EOF"), domain.ErrCacheDecode.Error()),
				domain.ErrCacheRead.Error(),
			),
			goldenName: "error_chain",
		},
		{
			name: "metadata on every layer",
			err: func() error {
				inner := zerr.With(zerr.New("transpile command failed"), "exit_code", 3)
				outer := zerr.Wrap(inner, "failed to transform module")
				outer = zerr.With(outer, "path", "/app/index.ts")
				return outer
			}(),
			goldenName: "error_metadata",
		},
		{
			name: "transform error",
			err: zerr.Wrap(
				&domain.TransformError{Path: "/app/broken.js", Offset: 8, Line: 1, Column: 9, Message: "Unexpected token ;"},
				domain.ErrTransform.Error(),
			),
			goldenName: "error_transform",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)

	assert.Empty(t, buf.String())
}

func TestLogger_Error_StdlibChain(t *testing.T) {
	inner := errors.New("connection refused")
	outer := fmt.Errorf("failed to initialize: %w", inner)

	lg, buf := newTestLogger(t)
	lg.Error(outer)

	assert.Equal(t, "✗ Error: failed to initialize: connection refused\n", buf.String())
}

func TestLogger_JSONFromEnvironment(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv(logger.FormatEnv, "json")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)

	lg.Error(zerr.With(zerr.Wrap(errors.New("disk full"), domain.ErrCacheWrite.Error()), "path", "cache.db"))

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"error":"failed to write transform cache: disk full"`)
	assert.Contains(t, out, `"metadata":{"path":"cache.db"}`)
	assert.NotContains(t, out, "✗")
}

func TestLogger_FormatSwitching(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Warn("pretty")
	pretty := buf.String()
	buf.Reset()

	lg.SetJSON(true)
	lg.Warn("json")
	jsonOut := buf.String()
	buf.Reset()

	lg.SetJSON(false)
	lg.Warn("pretty again")

	assert.Equal(t, "! pretty\n", pretty)
	assert.Contains(t, jsonOut, `"msg":"json"`)
	assert.Equal(t, "! pretty again\n", buf.String())
}

func TestLogger_SetOutputNil(t *testing.T) {
	require.NotPanics(t, func() {
		lg := logger.New().(*logger.Logger)
		lg.SetOutput(nil)
	})
}

func TestLogger_ConcurrentAccess(t *testing.T) {
	lg, _ := newTestLogger(t)

	done := make(chan struct{}, 4)
	go func() { lg.Info("info"); done <- struct{}{} }()
	go func() { lg.Warn("warn"); done <- struct{}{} }()
	go func() { lg.Error(errors.New("error")); done <- struct{}{} }()
	go func() { lg.SetJSON(true); done <- struct{}{} }()

	for range 4 {
		<-done
	}
}
