package arch_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"
)

// allowedGlobals lists package-level vars that are fixed after init but do
// not look constant to constLike.
var allowedGlobals = map[string][]string{
	// export: palette entries aliasing image/color values.
	"export": {"background", "ink"},
}

// allowedGlobalPrefixes exempts every var with one of the prefixes. The tui
// package builds its lipgloss colors and styles once at init.
var allowedGlobalPrefixes = map[string][]string{
	"tui": {"style", "color"},
}

// calls reports whether e is a call to one of the pkg.Func names.
func calls(e ast.Expr, names ...string) bool {
	call, ok := e.(*ast.CallExpr)
	if !ok {
		return false
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	x, ok := sel.X.(*ast.Ident)
	if !ok {
		return false
	}
	for _, n := range names {
		if n == x.Name+"."+sel.Sel.Name {
			return true
		}
	}
	return false
}

// constLike reports whether a package-level var behaves as a constant: an
// error sentinel, a compiled regexp, a sync primitive, a literal, or an
// inline table.
func constLike(typ, val ast.Expr) bool {
	if id, ok := typ.(*ast.Ident); ok && id.Name == "error" {
		return true
	}
	if sel, ok := typ.(*ast.SelectorExpr); ok {
		if x, ok := sel.X.(*ast.Ident); ok && (x.Name == "sync" || x.Name == "atomic") {
			return true
		}
	}
	switch val.(type) {
	case *ast.BasicLit, *ast.CompositeLit:
		return true
	}
	return calls(val, "errors.New", "fmt.Errorf", "regexp.MustCompile")
}

// TestNoMutableGlobalState flags package-level vars that could hold state
// shared between callers. Anything that is not constLike must be listed in
// allowedGlobals or carry an allowed prefix; listed names must still exist.
func TestNoMutableGlobalState(t *testing.T) {
	t.Parallel()

	tr := sources(t)
	for _, p := range tr.pkgs {
		allowed := make(map[string]bool)
		for _, name := range allowedGlobals[p.name] {
			allowed[name] = false
		}

		p.decls(func(_ string, d ast.Decl) {
			gd, ok := d.(*ast.GenDecl)
			if !ok || gd.Tok != token.VAR {
				return
			}
			for _, spec := range gd.Specs {
				vs := spec.(*ast.ValueSpec)
				for i, name := range vs.Names {
					if _, ok := allowed[name.Name]; ok {
						allowed[name.Name] = true
						continue
					}
					var val ast.Expr
					if i < len(vs.Values) {
						val = vs.Values[i]
					}
					if name.Name == "_" || hasPrefix(name.Name, allowedGlobalPrefixes[p.name]) || constLike(vs.Type, val) {
						continue
					}
					t.Errorf("%s: mutable global %s; pass it in or build it in a function", tr.pos(p, name), name.Name)
				}
			}
		})

		for name, used := range allowed {
			if !used {
				t.Errorf("allowedGlobals[%q] lists %s, which is not declared", p.name, name)
			}
		}
	}
}

func hasPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func TestConstLike(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want bool
	}{
		{`var ErrX = errors.New("x")`, true},
		{`var errY error`, true},
		{`var re = regexp.MustCompile("a+")`, true},
		{`var mu sync.Mutex`, true},
		{`var n = 3`, true},
		{`var table = map[string]int{"a": 1}`, true},
		{`var cache = make(map[string]int)`, false},
		{`var counter int`, false},
		{`var now = time.Now()`, false},
	}
	for _, tt := range tests {
		vs := parseVar(t, tt.src)
		var val ast.Expr
		if len(vs.Values) > 0 {
			val = vs.Values[0]
		}
		if got := constLike(vs.Type, val); got != tt.want {
			t.Errorf("constLike(%s) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func parseVar(t *testing.T, src string) *ast.ValueSpec {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "x.go", "package x\n"+src, 0)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return f.Decls[0].(*ast.GenDecl).Specs[0].(*ast.ValueSpec)
}
