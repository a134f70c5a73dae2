package validator

import (
	"fmt"
	"go/ast"
	"go/token"
	"path"
	"sort"
	"strconv"

	"golang.org/x/tools/go/ast/inspector"
)

// dangerousBuiltins are builtins that escape normal control flow or write
// straight to the process's stderr.
var dangerousBuiltins = map[string]struct{}{
	"panic":   {},
	"recover": {},
	"print":   {},
	"println": {},
}

// dangerousPackages give access to the filesystem, network, processes,
// the runtime or memory outside the type system.
var dangerousPackages = map[string]struct{}{
	"os":            {},
	"os/exec":       {},
	"os/signal":     {},
	"syscall":       {},
	"unsafe":        {},
	"net":           {},
	"net/http":      {},
	"net/rpc":       {},
	"plugin":        {},
	"runtime":       {},
	"runtime/debug": {},
	"io/ioutil":     {},
	"reflect":       {},
}

// sourceReport is what the source scan of one function found.
type sourceReport struct {
	dangerousCalls  []string
	dangerousAccess []string
	goroutines      int
	imports         []string
	complexity      int
}

// analyze walks the body of src and collects calls, package selectors,
// go statements and branch points.
func analyze(src *funcSource) sourceReport {
	imports := importNames(src.file.ast)

	var (
		rep       = sourceReport{complexity: 1}
		used      = make(map[string]struct{})
		seenCall  = make(map[string]struct{})
		seenPkg   = make(map[string]struct{})
		start     = src.node.Pos()
		end       = src.node.End()
		fset      = src.file.fset
		nodeTypes = []ast.Node{
			(*ast.CallExpr)(nil),
			(*ast.SelectorExpr)(nil),
			(*ast.GoStmt)(nil),
			(*ast.IfStmt)(nil),
			(*ast.ForStmt)(nil),
			(*ast.RangeStmt)(nil),
			(*ast.CaseClause)(nil),
			(*ast.CommClause)(nil),
			(*ast.BinaryExpr)(nil),
		}
	)

	in := inspector.New([]*ast.File{src.file.ast})
	in.Preorder(nodeTypes, func(n ast.Node) {
		if n.Pos() < start || n.End() > end {
			return
		}
		switch n := n.(type) {
		case *ast.CallExpr:
			id, ok := n.Fun.(*ast.Ident)
			if !ok {
				return
			}
			if _, bad := dangerousBuiltins[id.Name]; bad {
				if _, seen := seenCall[id.Name]; !seen {
					seenCall[id.Name] = struct{}{}
					rep.dangerousCalls = append(rep.dangerousCalls,
						fmt.Sprintf("%s (line %d)", id.Name, fset.Position(n.Pos()).Line))
				}
			}
		case *ast.SelectorExpr:
			id, ok := n.X.(*ast.Ident)
			if !ok {
				return
			}
			pkg, ok := imports[id.Name]
			if !ok {
				return
			}
			used[pkg] = struct{}{}
			if _, bad := dangerousPackages[pkg]; bad {
				ref := pkg + "." + n.Sel.Name
				if _, seen := seenPkg[ref]; !seen {
					seenPkg[ref] = struct{}{}
					rep.dangerousAccess = append(rep.dangerousAccess,
						fmt.Sprintf("%s (line %d)", ref, fset.Position(n.Pos()).Line))
				}
			}
		case *ast.GoStmt:
			rep.goroutines++
		case *ast.IfStmt, *ast.ForStmt, *ast.RangeStmt:
			rep.complexity++
		case *ast.CaseClause:
			if n.List != nil {
				rep.complexity++
			}
		case *ast.CommClause:
			if n.Comm != nil {
				rep.complexity++
			}
		case *ast.BinaryExpr:
			if n.Op == token.LAND || n.Op == token.LOR {
				rep.complexity++
			}
		}
	})

	for pkg := range used {
		rep.imports = append(rep.imports, pkg)
	}
	sort.Strings(rep.imports)
	return rep
}

// importNames maps the local name of every import in file to its path.
// Blank and dot imports cannot be referenced through a selector and are skipped.
func importNames(file *ast.File) map[string]string {
	out := make(map[string]string, len(file.Imports))
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := path.Base(p)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		out[name] = p
	}
	return out
}
