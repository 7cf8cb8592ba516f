// Package rewriter rewrites the literal require calls of a module so that it
// can be loaded from the snapshot's module registry.
package rewriter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dop251/goja/parser"
	"go.trai.ch/snaplink/internal/core/domain"
	"go.trai.ch/snaplink/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// WrapperHead opens the function every registry entry is wrapped in.
	WrapperHead = "function (exports, module, __filename, __dirname, require, define) {\n"
	// WrapperTail closes it.
	WrapperTail = "\n}"

	parsePrefix = "(" + WrapperHead
	parseSuffix = "\n})"
	jsonPrefix  = "module.exports = "
)

var _ ports.Rewriter = (*Rewriter)(nil)

// Rewriter implements ports.Rewriter with goja's ECMAScript parser.
type Rewriter struct {
	resolver ports.PathResolver
}

// New creates a new Rewriter.
func New(resolver ports.PathResolver) *Rewriter {
	return &Rewriter{resolver: resolver}
}

type edit struct {
	start int
	end   int
	text  string
}

// Rewrite resolves every require("literal") call of the module and replaces
// its argument: included modules get their registry key, excluded modules that
// resolved get their absolute path. Unresolved calls are left as written.
// JSON modules become a module.exports assignment.
func (r *Rewriter) Rewrite(req ports.RewriteRequest) (*ports.RewriteResult, error) {
	var (
		edits      []edit
		references []domain.RequireRef
	)

	if strings.EqualFold(filepath.Ext(req.Path), ".json") {
		if err := validateJSON(req.Path, req.Source); err != nil {
			return nil, err
		}
		edits = []edit{{text: jsonPrefix}}
	} else {
		req.Source = blankHashbang(req.Source)
		sites, err := parseRequireSites(req.Path, req.Source)
		if err != nil {
			return nil, err
		}
		edits, references = r.decide(req, sites)
	}

	body := applyEdits(req.Source, edits)
	result := &ports.RewriteResult{
		Code:       WrapperHead + body + WrapperTail,
		Requires:   domain.IncludedRefs(references),
		References: references,
	}

	if req.SourceMap {
		m, err := buildSourceMap(req, body, edits)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrTransform.Error()), "path", req.Path)
		}
		result.Map = m
	}

	return result, nil
}

func (r *Rewriter) decide(req ports.RewriteRequest, sites []requireSite) ([]edit, []domain.RequireRef) {
	var (
		edits      []edit
		references []domain.RequireRef
	)

	for _, site := range sites {
		resolved, ok := r.resolver.Resolve(req.Path, site.specifier, req.Extensions)
		relative := ""
		if ok {
			relative = domain.RelativeModulePath(req.BaseDir, resolved)
		} else {
			resolved = site.specifier
		}

		decision := domain.Included
		if req.Decide != nil {
			decision = req.Decide(site.specifier, resolved, relative)
		}
		ref := domain.RequireRef{Unresolved: site.specifier, Resolved: resolved}

		switch {
		case !ok:
			ref.Kind = domain.RefUnresolved
		case decision == domain.Included:
			edits = append(edits, edit{start: site.start, end: site.end, text: quote(relative)})
		default:
			ref.Kind = domain.RefExcluded
			edits = append(edits, edit{start: site.start, end: site.end, text: quote(resolved)})
		}
		references = append(references, ref)
	}

	return edits, references
}

// blankHashbang replaces a leading "#!" line with spaces. Offsets and line
// numbers are unchanged.
func blankHashbang(source string) string {
	if !strings.HasPrefix(source, "#!") {
		return source
	}
	end := strings.IndexByte(source, '\n')
	if end < 0 {
		end = len(source)
	}
	return strings.Repeat(" ", end) + source[end:]
}

func parseRequireSites(path, source string) ([]requireSite, error) {
	wrapped := parsePrefix + source + parseSuffix
	program, err := parser.ParseFile(nil, path, wrapped, 0, parser.WithDisableSourceMaps)
	if err != nil {
		return nil, parseError(path, source, wrapped, err)
	}
	return findRequireSites(program, len(parsePrefix)), nil
}

// parseError converts the first parser error into a TransformError whose
// offset points into source.
func parseError(path, source, wrapped string, err error) error {
	var list parser.ErrorList
	if !errors.As(err, &list) || len(list) == 0 {
		return &domain.TransformError{Path: path, Line: 1, Column: 1, Message: err.Error()}
	}

	first := list[0]
	line, col := first.Position.Line, first.Position.Column

	offset := 0
	starts := newLineIndex(wrapped).starts
	if line >= 1 && line <= len(starts) {
		offset = starts[line-1] + col - 1
	}
	offset = min(max(offset-len(parsePrefix), 0), len(source))

	return &domain.TransformError{
		Path:    path,
		Offset:  offset,
		Line:    max(line-1, 1),
		Column:  col,
		Message: first.Message,
	}
}

func validateJSON(path, source string) error {
	var v any
	err := json.Unmarshal([]byte(source), &v)
	if err == nil {
		return nil
	}

	offset := len(source)
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		offset = min(int(syntaxErr.Offset), len(source))
	}
	line, col := newLineIndex(source).position(offset)

	return &domain.TransformError{
		Path:    path,
		Offset:  offset,
		Line:    line + 1,
		Column:  col + 1,
		Message: err.Error(),
	}
}

func applyEdits(source string, edits []edit) string {
	var sb strings.Builder
	sb.Grow(len(source))
	last := 0
	for _, e := range edits {
		sb.WriteString(source[last:e.start])
		sb.WriteString(e.text)
		last = e.end
	}
	sb.WriteString(source[last:])
	return sb.String()
}

// shift maps an offset in the original source to the rewritten body.
func shift(offset int, edits []edit) int {
	delta := 0
	for _, e := range edits {
		if e.end > offset {
			break
		}
		delta += len(e.text) - (e.end - e.start)
	}
	return offset + delta
}

func buildSourceMap(req ports.RewriteRequest, body string, edits []edit) (*domain.SourceMap, error) {
	up, err := newUpstream(req.InputMap)
	if err != nil {
		return nil, err
	}

	b := newMapBuilder(filepath.Base(req.Path))
	src := newLineIndex(req.Source)
	gen := newLineIndex(body)
	sourceName := filepath.ToSlash(req.Path)

	for _, anchor := range anchors(req.Source, edits) {
		srcLine, srcCol := src.position(anchor)
		genLine, genCol := gen.position(shift(anchor, edits))

		m := mapping{genLine: genLine + 1, genCol: genCol, srcLine: srcLine, srcCol: srcCol}
		if up != nil {
			name, content, line, col, ok := up.original(srcLine, srcCol)
			if !ok {
				continue
			}
			m.source = b.addSource(name, content)
			m.srcLine, m.srcCol = line, col
		} else {
			m.source = b.addSource(sourceName, req.Source)
		}
		b.add(m)
	}

	return b.build(), nil
}

type charClass uint8

const (
	classSpace charClass = iota
	classWord
	classPunct
)

func classify(c byte) charClass {
	switch {
	case c == ' ' || c == '\t' || c == '\n' || c == '\r':
		return classSpace
	case c == '_' || c == '$' || c >= 0x80 ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9'):
		return classWord
	default:
		return classPunct
	}
}

// anchors returns the source offsets that get a mapping: the start of every
// token and both ends of every edit. Offsets inside an edit are dropped.
func anchors(source string, edits []edit) []int {
	var out []int
	prev := classSpace
	for i := range len(source) {
		cur := classify(source[i])
		if cur != classSpace && (i == 0 || cur != prev || cur == classPunct) {
			out = append(out, i)
		}
		prev = cur
	}
	for _, e := range edits {
		out = append(out, e.start)
		if e.end < len(source) {
			out = append(out, e.end)
		}
	}

	sort.Ints(out)
	filtered := out[:0]
	for i, o := range out {
		if i > 0 && o == out[i-1] {
			continue
		}
		if insideEdit(o, edits) {
			continue
		}
		filtered = append(filtered, o)
	}
	return filtered
}

func insideEdit(offset int, edits []edit) bool {
	for _, e := range edits {
		if e.start < offset && offset < e.end {
			return true
		}
	}
	return false
}

// quote renders s as a JavaScript string literal.
func quote(s string) string {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(sb.String(), "\n")
}
