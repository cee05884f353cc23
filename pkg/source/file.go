package source

import (
	"go/ast"
	"go/token"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/tools/go/packages"
)

// Annotation marks a type declaration for builder generation when it appears
// as its own line in the declaration's doc comment.
const Annotation = "//buildergen:builder"

// File is one parsed Go source file.
type File struct {
	Path    string   // path the file was read from
	Package string   // package clause name
	Imports []Import // imports in source order
	Decls   []*TypeDecl

	// DotImports is set when the file has at least one `import . "path"`.
	DotImports bool

	fset     *token.FileSet
	names    map[string]struct{} // top-level identifiers declared by the file
	siblings map[string]string   // top-level identifiers of the other package files -> file
	resolve  sync.Once
}

// TypeDecl is one top-level type declaration of a File.
type TypeDecl struct {
	Spec      *ast.TypeSpec
	Doc       *ast.CommentGroup
	Pos       token.Position // position of the type name
	Annotated bool
}

// Name returns the declared type name.
func (d *TypeDecl) Name() string {
	return d.Spec.Name.Name
}

// Shape reports what kind of type the declaration defines.
func (d *TypeDecl) Shape() Shape {
	return ShapeOf(d.Spec)
}

// Position resolves pos against the file set the file was parsed with.
func (f *File) Position(pos token.Pos) token.Position {
	return f.fset.Position(pos)
}

// Lookup returns the type declaration named name, or nil.
func (f *File) Lookup(name string) *TypeDecl {
	for _, d := range f.Decls {
		if d.Name() == name {
			return d
		}
	}
	return nil
}

// Annotated returns the declarations carrying the builder annotation, in source order.
func (f *File) Annotated() []*TypeDecl {
	var ret []*TypeDecl
	for _, d := range f.Decls {
		if d.Annotated {
			ret = append(ret, d)
		}
	}
	return ret
}

// After returns the first type declaration whose name sits below line.
// go generate reports the line of the directive in $GOLINE.
func (f *File) After(line int) *TypeDecl {
	for _, d := range f.Decls {
		if d.Pos.Line > line {
			return d
		}
	}
	return nil
}

// Declares reports whether name is declared at package level, by the file
// or by a sibling loaded with LoadPackage.
func (f *File) Declares(name string) bool {
	_, ok := f.names[name]
	if !ok {
		_, ok = f.siblings[name]
	}
	return ok
}

// DeclaredIn returns the path of the file declaring name, or "".
func (f *File) DeclaredIn(name string) string {
	if _, ok := f.names[name]; ok {
		return f.Path
	}
	return f.siblings[name]
}

// Names returns the package-level identifiers known to the file, sorted.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.names)+len(f.siblings))
	for name := range f.names {
		names = append(names, name)
	}
	for name := range f.siblings {
		if _, ok := f.names[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ImportByName returns the import the file refers to as name. Unaliased
// imports are first known by a name guessed from their path; on a miss the
// real package names are asked from the go command, once.
func (f *File) ImportByName(name string) (Import, bool) {
	if imp, ok := f.importByName(name); ok {
		return imp, true
	}
	f.resolve.Do(f.resolveNames)
	return f.importByName(name)
}

func (f *File) importByName(name string) (Import, bool) {
	for _, imp := range f.Imports {
		if imp.Name == name {
			return imp, true
		}
	}
	return Import{}, false
}

func (f *File) resolveNames() {
	var paths []string
	for _, imp := range f.Imports {
		if !imp.Explicit {
			paths = append(paths, imp.Path)
		}
	}
	if len(paths) == 0 {
		return
	}

	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName,
		Dir:  filepath.Dir(f.Path),
	}, paths...)
	if err != nil {
		// keep the guesses, the caller reports the miss
		return
	}
	found := make(map[string]string, len(pkgs))
	for _, p := range pkgs {
		if p.Name != "" {
			found[p.PkgPath] = p.Name
		}
	}
	for i, imp := range f.Imports {
		if name, ok := found[imp.Path]; ok && !imp.Explicit {
			f.Imports[i].Name = name
		}
	}
}

func isAnnotated(groups ...*ast.CommentGroup) bool {
	for _, g := range groups {
		if g == nil {
			continue
		}
		// CommentGroup.Text drops directive lines, so look at the raw comments.
		for _, c := range g.List {
			if strings.TrimSpace(c.Text) == Annotation {
				return true
			}
		}
	}
	return false
}
