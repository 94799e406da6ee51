package arch_test

import (
	"go/ast"
	"testing"
)

// colocated lists interfaces that may sit next to a type implementing them.
var colocated = map[string][]string{
	// Element capabilities shared by the variants: Frame carries selection,
	// Textbox shifts its placement point.
	"board": {"Selectable", "placer"},
	// The persistence contract lives with its TOML and SQLite backends.
	"store": {"Store"},
}

// methodSets collects method names per receiver type.
func methodSets(p *pkgSource) map[string]map[string]bool {
	sets := make(map[string]map[string]bool)
	p.decls(func(_ string, d ast.Decl) {
		fd, ok := d.(*ast.FuncDecl)
		if !ok || fd.Recv == nil {
			return
		}
		recv := fd.Recv.List[0].Type
		if star, ok := recv.(*ast.StarExpr); ok {
			recv = star.X
		}
		id, ok := recv.(*ast.Ident)
		if !ok {
			return
		}
		if sets[id.Name] == nil {
			sets[id.Name] = make(map[string]bool)
		}
		sets[id.Name][fd.Name.Name] = true
	})
	return sets
}

// TestInterfacePlacement wants interfaces declared by their consumers. An
// interface whose methods are all defined on one type of the same package
// is reported unless listed in colocated.
func TestInterfacePlacement(t *testing.T) {
	t.Parallel()

	tr := sources(t)
	for _, p := range tr.pkgs {
		allowed := make(map[string]bool)
		for _, name := range colocated[p.name] {
			allowed[name] = true
		}
		sets := methodSets(p)

		p.decls(func(_ string, d ast.Decl) {
			gd, ok := d.(*ast.GenDecl)
			if !ok {
				return
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok || allowed[ts.Name.Name] {
					continue
				}
				it, ok := ts.Type.(*ast.InterfaceType)
				if !ok {
					continue
				}
				var methods []string
				for _, m := range it.Methods.List {
					for _, n := range m.Names {
						methods = append(methods, n.Name)
					}
				}
				if len(methods) == 0 {
					continue
				}
				for typ, set := range sets {
					if hasAll(set, methods) {
						t.Errorf("%s: interface %s is implemented by %s in the same package; declare it where it is used",
							tr.pos(p, ts), ts.Name.Name, typ)
					}
				}
			}
		})
	}
}

func hasAll(set map[string]bool, names []string) bool {
	for _, n := range names {
		if !set[n] {
			return false
		}
	}
	return true
}
