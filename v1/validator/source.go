package validator

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// errNoSource is returned when a function's source file cannot be read,
// e.g. for generated wrappers or binaries built with -trimpath.
var errNoSource = errors.New("validator: function source unavailable")

// closureSuffix matches the compiler names of function literals.
var closureSuffix = regexp.MustCompile(`\.func\d+(\.\d+)*$`)

// funcSource is the parsed declaration of one function.
type funcSource struct {
	file *parsedFile
	node ast.Node // *ast.FuncDecl or *ast.FuncLit
	name string   // runtime name, e.g. example.com/pkg.Fn or pkg.Fn.func1
	path string
	line int
}

// doc returns the doc comment of a declared function.
func (s *funcSource) doc() string {
	if decl, ok := s.node.(*ast.FuncDecl); ok && decl.Doc != nil {
		return strings.TrimSpace(decl.Doc.Text())
	}
	return ""
}

type parsedFile struct {
	fset *token.FileSet
	ast  *ast.File
}

// sourceCache parses each file once, even under concurrent validations.
type sourceCache struct {
	group singleflight.Group

	mu    sync.RWMutex
	files map[string]*parsedFile
}

func newSourceCache() *sourceCache {
	return &sourceCache{files: make(map[string]*parsedFile)}
}

func (c *sourceCache) parse(path string) (*parsedFile, error) {
	c.mu.RLock()
	pf, ok := c.files[path]
	c.mu.RUnlock()
	if ok {
		return pf, nil
	}

	v, err, _ := c.group.Do(path, func() (interface{}, error) {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errNoSource, err)
		}
		fset := token.NewFileSet()
		file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("validator: failed to parse %s: %w", path, err)
		}
		pf := &parsedFile{fset: fset, ast: file}
		c.mu.Lock()
		c.files[path] = pf
		c.mu.Unlock()
		return pf, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*parsedFile), nil
}

func (c *sourceCache) clear() {
	c.mu.Lock()
	c.files = make(map[string]*parsedFile)
	c.mu.Unlock()
}

// locate finds the declaration of fn in its source file.
func (c *sourceCache) locate(fn interface{}) (*funcSource, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, errNoSource
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return nil, errNoSource
	}
	path, line := rf.FileLine(rf.Entry())
	if path == "" || strings.HasPrefix(path, "<") {
		return nil, errNoSource
	}

	pf, err := c.parse(path)
	if err != nil {
		return nil, err
	}

	node := findFuncNode(pf, rf.Name(), line)
	if node == nil {
		return nil, fmt.Errorf("%w: no declaration of %s at %s:%d", errNoSource, rf.Name(), path, line)
	}
	return &funcSource{file: pf, node: node, name: rf.Name(), path: path, line: line}, nil
}

// findFuncNode picks the function declared at line. Literals are preferred
// for closure names and declarations otherwise; when nothing starts on the
// line, the innermost function enclosing it is used.
func findFuncNode(pf *parsedFile, name string, line int) ast.Node {
	wantLit := closureSuffix.MatchString(name)
	declName := name[strings.LastIndex(name, ".")+1:]
	declName = strings.TrimSuffix(declName, "-fm")

	var (
		onLine    []ast.Node
		enclosing ast.Node
	)
	ast.Inspect(pf.ast, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.FuncDecl, *ast.FuncLit:
		default:
			return true
		}
		start := pf.fset.Position(n.Pos()).Line
		end := pf.fset.Position(n.End()).Line
		if line < start || line > end {
			return false
		}
		if start == line {
			onLine = append(onLine, n)
		}
		enclosing = n
		return true
	})

	for _, n := range onLine {
		switch fn := n.(type) {
		case *ast.FuncLit:
			if wantLit {
				return fn
			}
		case *ast.FuncDecl:
			if !wantLit && fn.Name.Name == declName {
				return fn
			}
		}
	}
	if len(onLine) > 0 {
		return onLine[0]
	}
	return enclosing
}
