package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/snaplink/internal/adapters/config"
	"go.trai.ch/snaplink/internal/core/domain"
	"go.trai.ch/snaplink/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const root = "/work/app"

func newMapLoader(t *testing.T, files fstest.MapFS) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	return config.NewLoaderWithFS(logger, config.NewMapFSAdapter("/", files)), logger
}

func TestLoader_Load_Defaults(t *testing.T) {
	t.Parallel()

	loader, _ := newMapLoader(t, fstest.MapFS{
		"work/app/snaplink.yaml": {Data: []byte("main: src/index.js\n")},
		"work/app/src/index.js":  {Data: []byte("")},
	})

	cfg, err := loader.Load(root)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, root, cfg.BaseDir)
	assert.Equal(t, filepath.Join(root, "src", "index.js"), cfg.MainPath)
	assert.Empty(t, cfg.EntryPoints)
	assert.Equal(t, []string{".js", ".json"}, cfg.Extensions)
	assert.Equal(t, map[string]any{}, cfg.Auxiliary)
	assert.False(t, cfg.SourceMaps)
	assert.Equal(t, filepath.Join(root, "snapshot.js"), cfg.Output)
	assert.Equal(t, filepath.Join(root, "snapshot.map.js"), cfg.OutputWithSourceMaps)
	assert.Equal(t, filepath.Join(root, ".snaplink", "cache.db"), cfg.CachePath)
	assert.Equal(t, config.NodePlatform(runtime.GOOS), cfg.Platform)
	assert.Equal(t, string(filepath.Separator), cfg.PathSeparator)
	assert.False(t, cfg.Transpile.Enabled())
	assert.Equal(t, []string{root}, cfg.Watch.Paths)
	assert.Equal(t, []string{"**/*.js", "**/*.json"}, cfg.Watch.Globs)
	assert.Equal(t, config.DefaultDebounce, cfg.Watch.Debounce)
	assert.True(t, cfg.Watch.Gitignore)
}

func TestLoader_Load_Full(t *testing.T) {
	t.Parallel()

	content := `
baseDir: ..
main: ./index.js
entryPoints: [./worker.js, /abs/other.js]
extensions: [.js, .cjs]
exclude: ["**/native/**"]
auxiliary:
  version: 3
  nested:
    name: app
sourceMaps: true
output: out/snap.js
outputWithSourceMaps: out/snap.map.js
cache: /tmp/cache.db
platform: darwin
pathSeparator: /
transpile:
  command: [esbuild, "{file}"]
  patterns: ["**/*.ts"]
watch:
  paths: [src]
  globs: ["src/**"]
  debounce: 200ms
  gitignore: false
`
	loader, _ := newMapLoader(t, fstest.MapFS{
		"work/app/snaplink.yaml": {Data: []byte(content)},
		"work/app/index.js":      {Data: []byte("")},
	})

	cfg, err := loader.Load(filepath.Join(root, "deep", "dir"))
	require.NoError(t, err)

	assert.Equal(t, "/work", cfg.BaseDir)
	assert.Equal(t, filepath.Join(root, "index.js"), cfg.MainPath)
	assert.Equal(t, []string{filepath.Join(root, "worker.js"), "/abs/other.js"}, cfg.EntryPoints)
	assert.Equal(t, []string{".js", ".cjs"}, cfg.Extensions)
	assert.Equal(t, []string{"**/native/**"}, cfg.Exclude)
	assert.Equal(t, map[string]any{"version": 3, "nested": map[string]any{"name": "app"}}, cfg.Auxiliary)
	assert.True(t, cfg.SourceMaps)
	assert.Equal(t, filepath.Join(root, "out", "snap.js"), cfg.Output)
	assert.Equal(t, filepath.Join(root, "out", "snap.map.js"), cfg.OutputWithSourceMaps)
	assert.Equal(t, "/tmp/cache.db", cfg.CachePath)
	assert.Equal(t, "darwin", cfg.Platform)
	assert.Equal(t, "/", cfg.PathSeparator)
	assert.Equal(t, []string{"esbuild", "{file}"}, cfg.Transpile.Command)
	assert.Equal(t, []string{"**/*.ts"}, cfg.Transpile.Patterns)
	assert.Equal(t, []string{filepath.Join(root, "src")}, cfg.Watch.Paths)
	assert.Equal(t, []string{"src/**"}, cfg.Watch.Globs)
	assert.Equal(t, 200*time.Millisecond, cfg.Watch.Debounce)
	assert.False(t, cfg.Watch.Gitignore)
}

func TestLoader_Load_DefaultWatchGlobsIncludeTranspilePatterns(t *testing.T) {
	t.Parallel()

	loader, _ := newMapLoader(t, fstest.MapFS{
		"work/app/snaplink.yaml": {Data: []byte("main: index.js\ntranspile:\n  command: [tsc]\n  patterns: ['**/*.ts']\n")},
		"work/app/index.js":      {Data: []byte("")},
	})

	cfg, err := loader.Load(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"**/*.js", "**/*.json", "**/*.ts"}, cfg.Watch.Globs)
}

func TestLoader_Load_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "missing main", content: "output: out.js\n", wantErr: domain.ErrMissingMain},
		{name: "invalid yaml", content: "main: [unclosed\n", wantErr: domain.ErrConfigParse},
		{name: "invalid exclude", content: "main: index.js\nexclude: ['[bad']\n", wantErr: domain.ErrInvalidPattern},
		{name: "invalid watch glob", content: "main: index.js\nwatch:\n  globs: ['{a']\n", wantErr: domain.ErrInvalidPattern},
		{name: "invalid debounce", content: "main: index.js\nwatch:\n  debounce: soon\n", wantErr: domain.ErrConfigParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loader, _ := newMapLoader(t, fstest.MapFS{
				"work/app/snaplink.yaml": {Data: []byte(tt.content)},
				"work/app/index.js":      {Data: []byte("")},
			})

			_, err := loader.Load(root)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestLoader_Load_NotFound(t *testing.T) {
	t.Parallel()

	loader, _ := newMapLoader(t, fstest.MapFS{
		"work/app/index.js": {Data: []byte("")},
	})

	_, err := loader.Load(root)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
}

func TestLoader_Load_Warnings(t *testing.T) {
	t.Parallel()

	loader, logger := newMapLoader(t, fstest.MapFS{
		"work/app/snaplink.yaml": {Data: []byte("main: missing.js\npathSeparator: ':'\n")},
	})
	logger.EXPECT().Warn(`unusual pathSeparator ":" in snaplink.yaml`)
	logger.EXPECT().Warn("main module " + filepath.Join(root, "missing.js") + " does not exist yet")

	cfg, err := loader.Load(root)
	require.NoError(t, err)
	assert.Equal(t, ":", cfg.PathSeparator)
}

func TestLoader_Load_OSFilesystem(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte("main: index.js\n"), domain.FilePerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.js"), nil, domain.FilePerm))
	sub := filepath.Join(dir, "lib", "deep")
	require.NoError(t, os.MkdirAll(sub, domain.DirPerm))

	loader := config.NewLoader(mocks.NewMockLogger(gomock.NewController(t)))
	cfg, err := loader.Load(sub)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, filepath.Join(dir, "index.js"), cfg.MainPath)
}

func TestNodePlatform(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "win32", config.NodePlatform("windows"))
	assert.Equal(t, "linux", config.NodePlatform("linux"))
	assert.Equal(t, "darwin", config.NodePlatform("darwin"))
	assert.Equal(t, "sunos", config.NodePlatform("illumos"))
}
