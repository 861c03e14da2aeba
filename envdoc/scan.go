// Package envdoc generates a reference document of the environment variables
// a program consumes, by scanning its Go sources for calls to the environ
// getters.
//
// The comment block directly above a call becomes the variable's
// description. Lines of the form
//
//	// envdoc:default 8080
//	// envdoc:type int
//	// envdoc:section HTTP Server
//
// override what the scanner infers from the call itself.
package envdoc

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Var describes one environment variable discovered in a source tree.
type Var struct {
	Name     string
	Aliases  []string
	Doc      string
	Default  string
	Type     string
	Section  string
	Required bool
	File     string
	Line     int
}

// getters maps recognized call names to the argument index of the default
// value. Require has no default at all (-1).
var getters = map[string]int{
	"Get":       0,
	"GetIn":     1,
	"Parse":     0,
	"ParseIn":   1,
	"GetFunc":   1,
	"GetFuncIn": 2,
	"Require":   -1,
	"RequireIn": -1,
}

// Scanner accumulates environ calls across files. Duplicate keys are an
// error: one variable should be read in one place.
type Scanner struct {
	fset *token.FileSet
	vars map[string]*Var
}

func NewScanner() *Scanner {
	return &Scanner{
		fset: token.NewFileSet(),
		vars: make(map[string]*Var),
	}
}

// ScanFile parses and scans a single Go source file.
func (s *Scanner) ScanFile(path string) error {
	return s.scan(path, nil)
}

// ScanSource scans src, using filename only for positions in error messages.
func (s *Scanner) ScanSource(filename string, src []byte) error {
	return s.scan(filename, src)
}

// ScanDir walks root and scans every non-test Go file. vendor and testdata
// directories are skipped.
func (s *Scanner) ScanDir(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "vendor" || d.Name() == "testdata" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		return s.ScanFile(path)
	})
}

// Vars returns the discovered variables sorted by name.
func (s *Scanner) Vars() []Var {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := make([]Var, 0, len(names))
	for _, name := range names {
		vars = append(vars, *s.vars[name])
	}
	return vars
}

func (s *Scanner) scan(filename string, src []byte) error {
	file, err := parser.ParseFile(s.fset, filename, src, parser.ParseComments)
	if err != nil {
		return err
	}

	// Leading comment groups indexed by the line they end on, so the block
	// directly above a call can be attached to it. The comment map keeps
	// only groups that end before their node starts, which excludes trailing
	// comments sharing a line with unrelated code.
	docByLine := make(map[int]*ast.CommentGroup)
	for node, groups := range ast.NewCommentMap(s.fset, file, file.Comments) {
		nodeLine := s.fset.Position(node.Pos()).Line
		for _, cg := range groups {
			if end := s.fset.Position(cg.End()).Line; end < nodeLine {
				docByLine[end] = cg
			}
		}
	}

	var scanErr error
	ast.Inspect(file, func(n ast.Node) bool {
		if scanErr != nil {
			return false
		}
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		name, typeArg := calleeName(call.Fun)
		defIndex, known := getters[name]
		if !known {
			return true
		}

		v := s.varFromCall(name, defIndex, typeArg, call, filename)
		if v == nil {
			return true
		}
		if cg, ok := docByLine[v.Line-1]; ok {
			applyDoc(v, cg)
		}

		if existing, dup := s.vars[v.Name]; dup {
			scanErr = fmt.Errorf("duplicate environ call for %s in %s:%d (first seen in %s:%d)",
				v.Name, v.File, v.Line, existing.File, existing.Line)
			return false
		}
		s.vars[v.Name] = v
		return true
	})
	return scanErr
}

// calleeName unwraps the call target to its bare name, seeing through
// package selectors and explicit generic instantiation. The second result is
// the type argument of an instantiation like Require[int], if any.
func calleeName(fun ast.Expr) (string, string) {
	var typeArg string
	switch e := fun.(type) {
	case *ast.IndexExpr:
		typeArg = exprString(e.Index)
		fun = e.X
	case *ast.IndexListExpr:
		if len(e.Indices) > 0 {
			typeArg = exprString(e.Indices[0])
		}
		fun = e.X
	}
	switch e := fun.(type) {
	case *ast.SelectorExpr:
		return e.Sel.Name, typeArg
	case *ast.Ident:
		return e.Name, typeArg
	}
	return "", ""
}

func (s *Scanner) varFromCall(name string, defIndex int, typeArg string, call *ast.CallExpr, filename string) *Var {
	args := call.Args

	var defExpr ast.Expr
	keyStart := 0
	if defIndex >= 0 {
		if len(args) <= defIndex {
			return nil
		}
		defExpr = args[defIndex]
		keyStart = defIndex + 1
	} else if strings.HasSuffix(name, "In") {
		keyStart = 1 // skip the Source argument
	}

	var keys []string
	for _, a := range args[keyStart:] {
		lit, ok := a.(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			return nil // only literal keys are documentable
		}
		key, err := strconv.Unquote(lit.Value)
		if err != nil {
			return nil
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil
	}

	v := &Var{
		Name:     keys[0],
		Required: defExpr == nil,
		Type:     typeArg,
		File:     filename,
		Line:     s.fset.Position(call.Pos()).Line,
	}
	if len(keys) > 1 {
		v.Aliases = keys[1:]
	}
	if defExpr != nil {
		v.Default = defaultString(defExpr)
		if v.Type == "" {
			v.Type = inferType(defExpr)
		}
	}
	if strings.HasPrefix(name, "GetFunc") && v.Type == "" {
		v.Type = parserType(args[defIndex-1])
	}
	if v.Type == "" {
		v.Type = "string"
	}
	return v
}

// defaultString renders the default expression as written, unquoting plain
// string literals.
func defaultString(e ast.Expr) string {
	if lit, ok := e.(*ast.BasicLit); ok && lit.Kind == token.STRING {
		s, err := strconv.Unquote(lit.Value)
		if err == nil {
			return s
		}
	}
	return exprString(e)
}

func inferType(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.BasicLit:
		switch e.Kind {
		case token.INT:
			return "int"
		case token.FLOAT:
			return "float64"
		case token.STRING:
			return "string"
		}
	case *ast.Ident:
		if e.Name == "true" || e.Name == "false" {
			return "bool"
		}
	case *ast.BinaryExpr:
		// e.g. 5 * time.Second
		if t := inferType(e.Y); t != "" {
			return t
		}
		return inferType(e.X)
	case *ast.SelectorExpr:
		if x, ok := e.X.(*ast.Ident); ok && x.Name == "time" {
			return "time.Duration"
		}
	case *ast.CallExpr:
		if name, _ := calleeName(e.Fun); name != "" {
			switch name {
			case "Duration":
				return "time.Duration"
			}
		}
	}
	return ""
}

// parserType recognizes well-known conversion functions passed to GetFunc.
func parserType(e ast.Expr) string {
	name, _ := calleeName(e)
	switch name {
	case "ParseBool":
		return "bool"
	case "Atoi":
		return "int"
	case "ParseDuration":
		return "time.Duration"
	}
	return ""
}

func exprString(e ast.Expr) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, token.NewFileSet(), e); err != nil {
		return ""
	}
	return buf.String()
}

// applyDoc fills the description from a comment block, honoring envdoc
// override directives.
func applyDoc(v *Var, cg *ast.CommentGroup) {
	var desc []string
	for _, line := range strings.Split(strings.TrimRight(cg.Text(), "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "envdoc:default "):
			v.Default = strings.TrimSpace(strings.TrimPrefix(line, "envdoc:default "))
			// A documented default makes the variable optional, even for
			// Require calls.
			v.Required = false
		case strings.HasPrefix(line, "envdoc:type "):
			v.Type = strings.TrimSpace(strings.TrimPrefix(line, "envdoc:type "))
		case strings.HasPrefix(line, "envdoc:section "):
			v.Section = strings.TrimSpace(strings.TrimPrefix(line, "envdoc:section "))
		default:
			desc = append(desc, line)
		}
	}
	v.Doc = strings.TrimSpace(strings.Join(desc, "\n"))
}
