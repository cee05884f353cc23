package source

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/thorn-jmh/errorst"
)

var ErrParse = errorst.NewError("cannot parse go source")

// FromFile reads and parses a Go source file.
func FromFile(filePath string) (*File, error) {
	src, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errorst.NewError("failed to read file %s: %w", filePath, err)
	}

	return FromSource(filePath, src)
}

// FromSource parses src as the contents of filename.
func FromSource(filename string, src []byte) (*File, error) {
	fset := token.NewFileSet()
	af, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, errorst.Wrap(ErrParse, "%v", err)
	}

	file := &File{
		Path:    filename,
		Package: af.Name.Name,
		fset:    fset,
		names:   make(map[string]struct{}),
	}

	// first: imports
	for _, spec := range af.Imports {
		imp, err := newImport(spec)
		if err != nil {
			return nil, errorst.Wrap(ErrParse, "bad import path %s in %s", spec.Path.Value, filename)
		}
		switch imp.Name {
		case ".":
			file.DotImports = true
			continue
		case "_":
			continue
		}
		file.Imports = append(file.Imports, imp)
	}

	// second: top-level names and type declarations
	file.collectNames(af)

	return file, nil
}

func (f *File) collectNames(af *ast.File) {
	for _, decl := range af.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				f.names[d.Name.Name] = struct{}{}
			}
		case *ast.GenDecl:
			f.collect(d)
		}
	}
}

func (f *File) collect(gd *ast.GenDecl) {
	for _, spec := range gd.Specs {
		switch s := spec.(type) {
		case *ast.ValueSpec:
			for _, n := range s.Names {
				f.names[n.Name] = struct{}{}
			}
		case *ast.TypeSpec:
			f.names[s.Name.Name] = struct{}{}

			// an ungrouped declaration keeps its doc on the GenDecl
			doc := s.Doc
			if doc == nil && !gd.Lparen.IsValid() {
				doc = gd.Doc
			}
			f.Decls = append(f.Decls, &TypeDecl{
				Spec:      s,
				Doc:       doc,
				Pos:       f.fset.Position(s.Name.Pos()),
				Annotated: isAnnotated(doc),
			})
		}
	}
}

// LoadPackage records the top-level names declared by the other files of
// the package in the directory of f, so Declares sees them too. Test files,
// files of another package and the paths in skip (typically the output
// being regenerated) are ignored.
func (f *File) LoadPackage(skip ...string) error {
	dir := filepath.Dir(f.Path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errorst.NewError("failed to read package dir %s: %w", dir, err)
	}

	ignored := map[string]struct{}{filepath.Clean(f.Path): {}}
	for _, p := range skip {
		ignored[filepath.Clean(p)] = struct{}{}
	}

	f.siblings = make(map[string]string)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".go" || strings.HasSuffix(name, "_test.go") {
			continue
		}
		path := filepath.Join(dir, name)
		if _, ok := ignored[filepath.Clean(path)]; ok {
			continue
		}

		fset := token.NewFileSet()
		af, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if err != nil {
			// the compiler reports it, generation of f does not depend on it
			continue
		}
		if af.Name.Name != f.Package {
			continue
		}
		sibling := &File{fset: fset, names: make(map[string]struct{})}
		sibling.collectNames(af)
		for n := range sibling.names {
			f.siblings[n] = path
		}
	}
	return nil
}
