package traversal_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/snaplink/internal/adapters/cache"
	"go.trai.ch/snaplink/internal/adapters/fs"
	"go.trai.ch/snaplink/internal/adapters/rewriter"
	"go.trai.ch/snaplink/internal/core/domain"
	"go.trai.ch/snaplink/internal/core/ports/mocks"
	"go.trai.ch/snaplink/internal/engine/traversal"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	root  string
	store *cache.Store
	orch  *traversal.Orchestrator
	log   *mocks.MockLogger
}

func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		writeFile(t, root, name, content)
	}

	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"), "key", fs.NewHasher())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	resolver := fs.NewResolver()

	return &fixture{
		root:  root,
		store: store,
		orch:  traversal.NewOrchestrator(resolver, rewriter.New(resolver), log),
		log:   log,
	}
}

func (f *fixture) path(name string) string {
	return filepath.Join(f.root, filepath.FromSlash(name))
}

func (f *fixture) options() traversal.Options {
	return traversal.Options{
		BaseDir:    f.root,
		MainPath:   f.path("index.js"),
		Extensions: []string{".js", ".json"},
		Exclude: func(q domain.ExclusionQuery) bool {
			return strings.HasSuffix(q.RequiredPath, "b.js")
		},
	}
}

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func relativePaths(res *traversal.Result) []string {
	out := make([]string, 0, len(res.Modules))
	for _, m := range res.Modules {
		out = append(out, m.RelativePath)
	}
	return out
}

func graphFiles() map[string]string {
	return map[string]string{
		"index.js": "const a = require('./dir/a')\n" +
			"global.initialize = function () { return a.name + require('./b').name }\n",
		"dir/a.js":                  "const c = require('./c.json')\nmodule.exports = { name: 'a' + c.x + require('pkg') }\n",
		"dir/c.json":                "{\"x\": \"x\"}\n",
		"node_modules/pkg/index.js": "module.exports = 'p'\n",
		"b.js":                      "module.exports = { name: 'b' }\n",
	}
}

func TestTraverse_DiscoveryOrder(t *testing.T) {
	f := newFixture(t, graphFiles())

	res, err := f.orch.Traverse(context.Background(), f.store, f.options())
	require.NoError(t, err)

	assert.Equal(t, []string{"./index.js", "./dir/a.js", "./dir/c.json", "pkg/index.js"}, relativePaths(res))
	assert.Equal(t, []string{
		f.path("index.js"),
		f.path("dir/a.js"),
		f.path("dir/c.json"),
		f.path("node_modules/pkg/index.js"),
	}, res.Included.Paths())
	assert.Equal(t, 4, res.Transformed)
	assert.Equal(t, 0, res.Hits)

	index := res.Modules[0].Code
	assert.Contains(t, index, `require("./dir/a.js")`)
	assert.Contains(t, index, `require(`+quote(f.path("b.js"))+`)`)
	assert.False(t, res.Included.Has(f.path("b.js")))
}

func TestTraverse_CacheHits(t *testing.T) {
	f := newFixture(t, graphFiles())
	ctx := context.Background()

	first, err := f.orch.Traverse(ctx, f.store, f.options())
	require.NoError(t, err)

	second, err := f.orch.Traverse(ctx, f.store, f.options())
	require.NoError(t, err)

	assert.Equal(t, 0, second.Transformed)
	assert.Equal(t, 4, second.Hits)
	require.Len(t, second.Modules, len(first.Modules))
	for i := range first.Modules {
		assert.Equal(t, first.Modules[i].RelativePath, second.Modules[i].RelativePath)
		assert.Equal(t, first.Modules[i].Code, second.Modules[i].Code)
		assert.Len(t, second.Modules[i].Requires, len(first.Modules[i].Requires))
	}
	assert.Equal(t, first.Included.Paths(), second.Included.Paths())
}

func TestTraverse_ContentChange(t *testing.T) {
	f := newFixture(t, graphFiles())
	ctx := context.Background()

	_, err := f.orch.Traverse(ctx, f.store, f.options())
	require.NoError(t, err)

	writeFile(t, f.root, "dir/a.js", "const c = require('./c.json')\nmodule.exports = { name: 'A' + c.x + require('pkg') }\n")

	res, err := f.orch.Traverse(ctx, f.store, f.options())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Transformed)
	assert.Equal(t, 3, res.Hits)
	assert.Contains(t, res.Modules[1].Code, "'A'")
}

func TestTraverse_ResolutionDrift(t *testing.T) {
	f := newFixture(t, map[string]string{
		"index.js": "require('./util')\n",
		"util.js":  "module.exports = 1\n",
	})
	ctx := context.Background()

	_, err := f.orch.Traverse(ctx, f.store, f.options())
	require.NoError(t, err)

	require.NoError(t, os.Remove(f.path("util.js")))
	writeFile(t, f.root, "util/index.js", "module.exports = 2\n")

	res, err := f.orch.Traverse(ctx, f.store, f.options())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Transformed)
	assert.Equal(t, []string{"./index.js", "./util/index.js"}, relativePaths(res))
	assert.Contains(t, res.Modules[0].Code, `require("./util/index.js")`)
}

func TestTraverse_MissingDependencyAppears(t *testing.T) {
	f := newFixture(t, map[string]string{
		"index.js": "module.exports = require('./util')\n",
	})
	ctx := context.Background()

	res, err := f.orch.Traverse(ctx, f.store, f.options())
	require.NoError(t, err)
	assert.Equal(t, []string{"./index.js"}, relativePaths(res))
	assert.Contains(t, res.Modules[0].Code, "require('./util')")

	writeFile(t, f.root, "util.js", "module.exports = 1\n")

	res, err = f.orch.Traverse(ctx, f.store, f.options())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Transformed)
	assert.Equal(t, 0, res.Hits)
	assert.Equal(t, []string{"./index.js", "./util.js"}, relativePaths(res))
	assert.Contains(t, res.Modules[0].Code, `require("./util.js")`)
	assert.True(t, res.Included.Has(f.path("util.js")))
}

func TestTraverse_ExcludedTargetMoves(t *testing.T) {
	f := newFixture(t, map[string]string{
		"index.js":  "require('./native')\n",
		"native.js": "module.exports = 1\n",
	})
	ctx := context.Background()
	opts := f.options()
	opts.Exclude = func(domain.ExclusionQuery) bool { return true }

	res, err := f.orch.Traverse(ctx, f.store, opts)
	require.NoError(t, err)
	assert.Contains(t, res.Modules[0].Code, `require(`+quote(f.path("native.js"))+`)`)

	res, err = f.orch.Traverse(ctx, f.store, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Hits)

	require.NoError(t, os.Remove(f.path("native.js")))
	writeFile(t, f.root, "native/index.js", "module.exports = 2\n")

	res, err = f.orch.Traverse(ctx, f.store, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Transformed)
	assert.Equal(t, []string{"./index.js"}, relativePaths(res))
	assert.Contains(t, res.Modules[0].Code, `require(`+quote(f.path("native/index.js"))+`)`)
}

func TestTraverse_OnlyDirectReferencesRevalidated(t *testing.T) {
	f := newFixture(t, graphFiles())
	ctx := context.Background()

	_, err := f.orch.Traverse(ctx, f.store, f.options())
	require.NoError(t, err)

	// A changed dependency does not invalidate the modules requiring it.
	writeFile(t, f.root, "node_modules/pkg/index.js", "module.exports = 'q'\n")

	res, err := f.orch.Traverse(ctx, f.store, f.options())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Transformed)
	assert.Equal(t, 3, res.Hits)
}

func TestTraverse_EvictsUnreachable(t *testing.T) {
	f := newFixture(t, graphFiles())
	ctx := context.Background()

	_, err := f.orch.Traverse(ctx, f.store, f.options())
	require.NoError(t, err)
	assert.Len(t, f.store.Paths(), 4)

	writeFile(t, f.root, "index.js", "global.initialize = function () { return 'x' }\n")

	res, err := f.orch.Traverse(ctx, f.store, f.options())
	require.NoError(t, err)
	assert.Equal(t, []string{"./index.js"}, relativePaths(res))
	assert.Equal(t, []string{f.path("index.js")}, f.store.Paths())
}

func TestTraverse_Cycle(t *testing.T) {
	f := newFixture(t, map[string]string{
		"index.js": "require('./x')\n",
		"x.js":     "require('./y')\n",
		"y.js":     "require('./x')\nrequire('./index')\n",
	})

	res, err := f.orch.Traverse(context.Background(), f.store, f.options())
	require.NoError(t, err)
	assert.Equal(t, []string{"./index.js", "./x.js", "./y.js"}, relativePaths(res))
	assert.Equal(t, 3, res.Included.Len())
}

func TestTraverse_EntryPoints(t *testing.T) {
	f := newFixture(t, map[string]string{
		"index.js":  "module.exports = 1\n",
		"worker.js": "require('./shared')\n",
		"shared.js": "module.exports = 2\n",
	})
	opts := f.options()
	opts.EntryPoints = []string{f.path("worker.js")}

	res, err := f.orch.Traverse(context.Background(), f.store, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"./index.js", "./worker.js", "./shared.js"}, relativePaths(res))
}

func TestTraverse_TransformErrorIsFatal(t *testing.T) {
	f := newFixture(t, map[string]string{
		"index.js":  "require('./broken')\n",
		"broken.js": "var a = ;\n",
	})

	var warnings []string
	f.log.EXPECT().Warn(gomock.Any()).Do(func(msg string) { warnings = append(warnings, msg) }).Times(2)

	_, err := f.orch.Traverse(context.Background(), f.store, f.options())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrTransform.Error())

	var terr *domain.TransformError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, f.path("broken.js"), terr.Path)

	require.Len(t, warnings, 2)
	assert.Equal(t, "Unable to transform source code for module "+f.path("broken.js")+".", warnings[0])
	assert.Equal(t, "var a = ==>;\n", warnings[1])
}

func TestTraverse_MissingModule(t *testing.T) {
	f := newFixture(t, map[string]string{})

	_, err := f.orch.Traverse(context.Background(), f.store, f.options())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrFileRead.Error())
}

func TestTraverse_Transpiler(t *testing.T) {
	f := newFixture(t, map[string]string{
		"index.js": "require('./view')\n",
		"view.js":  "export default 1\n",
	})

	ctrl := gomock.NewController(t)
	transpiler := mocks.NewMockTranspiler(ctrl)
	transpiler.EXPECT().Transpile(gomock.Any(), f.path("index.js")).Return(nil, nil)
	transpiler.EXPECT().Transpile(gomock.Any(), f.path("view.js")).
		Return(&domain.Transpiled{Code: "exports.default = 1\n"}, nil)

	opts := f.options()
	opts.Transpiler = transpiler

	res, err := f.orch.Traverse(context.Background(), f.store, opts)
	require.NoError(t, err)
	require.Len(t, res.Modules, 2)
	assert.Contains(t, res.Modules[1].Code, "exports.default = 1")
}

func TestTraverse_SourceMapsRejectMaplessHits(t *testing.T) {
	f := newFixture(t, map[string]string{"index.js": "module.exports = 1\n"})
	ctx := context.Background()

	_, err := f.orch.Traverse(ctx, f.store, f.options())
	require.NoError(t, err)

	opts := f.options()
	opts.SourceMaps = true

	res, err := f.orch.Traverse(ctx, f.store, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Transformed)
	require.NotNil(t, res.Modules[0].Map)

	res, err = f.orch.Traverse(ctx, f.store, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Hits)
	assert.NotNil(t, res.Modules[0].Map)
}

func TestRetransform(t *testing.T) {
	f := newFixture(t, graphFiles())
	ctx := context.Background()

	_, err := f.orch.Traverse(ctx, f.store, f.options())
	require.NoError(t, err)

	n, err := f.orch.Retransform(ctx, f.store, f.options(), []string{f.path("dir/a.js")})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	writeFile(t, f.root, "dir/a.js", "module.exports = { name: 'a' + require('./d') }\n")
	writeFile(t, f.root, "dir/d.js", "module.exports = 'd'\n")

	n, err = f.orch.Retransform(ctx, f.store, f.options(), []string{f.path("dir/a.js")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entry, ok := f.store.Get(f.path("dir/d.js"), nil)
	require.True(t, ok)
	assert.Contains(t, entry.Source, "'d'")

	res, err := f.orch.Traverse(ctx, f.store, f.options())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Transformed)
	assert.Equal(t, []string{"./index.js", "./dir/a.js", "./dir/d.js"}, relativePaths(res))
}

func TestRetransform_NewFileSatisfiesMissingRequire(t *testing.T) {
	f := newFixture(t, map[string]string{
		"index.js": "module.exports = require('./util')\n",
	})
	ctx := context.Background()

	_, err := f.orch.Traverse(ctx, f.store, f.options())
	require.NoError(t, err)

	writeFile(t, f.root, "util.js", "module.exports = 1\n")

	n, err := f.orch.Retransform(ctx, f.store, f.options(), []string{f.path("util.js")})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	res, err := f.orch.Traverse(ctx, f.store, f.options())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Transformed)
	assert.Equal(t, 1, res.Hits)
	assert.Equal(t, []string{"./index.js", "./util.js"}, relativePaths(res))
}

func TestRetransform_MissingFile(t *testing.T) {
	f := newFixture(t, map[string]string{})

	_, err := f.orch.Retransform(context.Background(), f.store, f.options(), []string{f.path("gone.js")})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrFileRead.Error())
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"`
}
