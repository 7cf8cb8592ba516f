package rewriter

import (
	"reflect"
	"sort"

	"github.com/dop251/goja/ast"
)

var astPkgPath = reflect.TypeFor[ast.Program]().PkgPath()

// requireSite is a literal require call: source[start:end] is the quoted argument.
type requireSite struct {
	start     int
	end       int
	specifier string
}

// findRequireSites returns every require("literal") call in program, sorted by
// position. base is subtracted from node indexes to get offsets into the
// original module source.
func findRequireSites(program *ast.Program, base int) []requireSite {
	var sites []requireSite

	for _, call := range collectCalls(program) {
		callee, ok := call.Callee.(*ast.Identifier)
		if !ok || callee.Name != "require" || len(call.ArgumentList) != 1 {
			continue
		}
		lit, ok := call.ArgumentList[0].(*ast.StringLiteral)
		if !ok {
			continue
		}
		start := int(lit.Idx) - 1 - base
		sites = append(sites, requireSite{
			start:     start,
			end:       start + len(lit.Literal),
			specifier: lit.Value.String(),
		})
	}

	sort.Slice(sites, func(i, j int) bool { return sites[i].start < sites[j].start })
	return sites
}

type visitKey struct {
	ptr uintptr
	typ reflect.Type
}

// collectCalls walks every node reachable from root. DeclarationList fields
// repeat nodes already present in the statement bodies and are skipped.
func collectCalls(root ast.Node) []*ast.CallExpression {
	var calls []*ast.CallExpression
	seen := make(map[visitKey]bool)

	var visit func(v reflect.Value)
	visit = func(v reflect.Value) {
		switch v.Kind() {
		case reflect.Interface:
			if !v.IsNil() {
				visit(v.Elem())
			}
		case reflect.Pointer:
			if v.IsNil() || v.Type().Elem().PkgPath() != astPkgPath {
				return
			}
			key := visitKey{ptr: v.Pointer(), typ: v.Type()}
			if seen[key] {
				return
			}
			seen[key] = true
			if call, ok := v.Interface().(*ast.CallExpression); ok {
				calls = append(calls, call)
			}
			visit(v.Elem())
		case reflect.Struct:
			t := v.Type()
			for i := range t.NumField() {
				field := t.Field(i)
				if !field.IsExported() || field.Name == "DeclarationList" {
					continue
				}
				visit(v.Field(i))
			}
		case reflect.Slice:
			for i := range v.Len() {
				visit(v.Index(i))
			}
		default:
		}
	}

	visit(reflect.ValueOf(root))
	return calls
}
