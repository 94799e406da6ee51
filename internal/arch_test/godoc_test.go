package arch_test

import (
	"go/ast"
	"go/token"
	"strings"
	"testing"
)

// docExemptions lists exported symbols allowed to go without a GoDoc
// comment, by package.
var docExemptions = map[string][]string{}

// documented reports whether doc is a GoDoc comment for name.
func documented(doc *ast.CommentGroup, name string) bool {
	return doc != nil && strings.HasPrefix(strings.TrimSpace(doc.Text()), name)
}

func hasText(g *ast.CommentGroup) bool {
	return g != nil && strings.TrimSpace(g.Text()) != ""
}

// exportedBase reports whether a receiver's base type is exported, looking
// through pointers and type parameters.
func exportedBase(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.IsExported()
	case *ast.StarExpr:
		return exportedBase(e.X)
	case *ast.IndexExpr:
		return exportedBase(e.X)
	case *ast.IndexListExpr:
		return exportedBase(e.X)
	}
	return false
}

// TestExportedSymbolsHaveGoDoc requires a comment starting with the symbol
// name on every exported declaration. Members of a const or var group may
// lean on the group's comment or carry a trailing one instead.
func TestExportedSymbolsHaveGoDoc(t *testing.T) {
	t.Parallel()

	tr := sources(t)
	for _, p := range tr.pkgs {
		exempt := make(map[string]bool)
		for _, name := range docExemptions[p.name] {
			exempt[name] = true
		}
		missing := func(n ast.Node, kind, name string) {
			if !exempt[name] {
				t.Errorf("%s: exported %s %s has no GoDoc comment", tr.pos(p, n), kind, name)
			}
		}

		p.decls(func(_ string, d ast.Decl) {
			switch d := d.(type) {
			case *ast.FuncDecl:
				if !d.Name.IsExported() {
					return
				}
				if d.Recv != nil && !exportedBase(d.Recv.List[0].Type) {
					return
				}
				if !documented(d.Doc, d.Name.Name) {
					missing(d, "func", d.Name.Name)
				}

			case *ast.GenDecl:
				grouped := len(d.Specs) > 1
				for _, spec := range d.Specs {
					switch s := spec.(type) {
					case *ast.TypeSpec:
						if !s.Name.IsExported() {
							continue
						}
						doc := s.Doc
						if doc == nil {
							doc = d.Doc
						}
						if !documented(doc, s.Name.Name) {
							missing(s, "type", s.Name.Name)
						}
					case *ast.ValueSpec:
						kind := "var"
						if d.Tok == token.CONST {
							kind = "const"
						}
						for _, name := range s.Names {
							if !name.IsExported() {
								continue
							}
							switch {
							case documented(s.Doc, name.Name):
							case grouped && (hasText(d.Doc) || hasText(s.Comment)):
							case !grouped && documented(d.Doc, name.Name):
							default:
								missing(name, kind, name.Name)
							}
						}
					}
				}
			}
		})
	}
}
