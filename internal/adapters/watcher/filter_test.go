package watcher_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/snaplink/internal/adapters/watcher"
	"go.trai.ch/snaplink/internal/core/domain"
)

func TestFilter_Match(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("dist/\n*.gen.js\n"), domain.FilePerm))

	f, err := watcher.NewFilter(root, domain.WatchConfig{
		Paths:     []string{root},
		Globs:     []string{"**/*.js", "**/*.json"},
		Gitignore: true,
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "module", path: filepath.Join(root, "index.js"), want: true},
		{name: "nested json", path: filepath.Join(root, "lib", "data.json"), want: true},
		{name: "glob mismatch", path: filepath.Join(root, "README.md"), want: false},
		{name: "ignored file pattern", path: filepath.Join(root, "lib", "types.gen.js"), want: false},
		{name: "ignored directory", path: filepath.Join(root, "dist", "bundle.js"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, f.Match(tt.path))
		})
	}
}

func TestFilter_GitignoreDisabled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.gen.js\n"), domain.FilePerm))

	f, err := watcher.NewFilter(root, domain.WatchConfig{
		Paths: []string{root},
		Globs: []string{"**/*.js"},
	})
	require.NoError(t, err)
	assert.True(t, f.Match(filepath.Join(root, "types.gen.js")))
}

func TestFilter_MissingGitignore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	f, err := watcher.NewFilter(root, domain.WatchConfig{
		Paths:     []string{root},
		Globs:     []string{"src/**"},
		Gitignore: true,
	})
	require.NoError(t, err)
	assert.True(t, f.Match(filepath.Join(root, "src", "a.ts")))
	assert.False(t, f.Match(filepath.Join(root, "test", "a.ts")))
}

func TestNewFilter_InvalidGlob(t *testing.T) {
	t.Parallel()

	_, err := watcher.NewFilter(t.TempDir(), domain.WatchConfig{Globs: []string{"[bad"}})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidPattern.Error())
}
