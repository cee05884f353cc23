package source

import (
	"go/ast"
	"path"
	"strconv"
	"strings"

	"golang.org/x/mod/module"
)

// Import is one import of a File.
type Import struct {
	Name     string // identifier the file uses for the package
	Path     string // import path
	Explicit bool   // Name was written in the source
}

func newImport(spec *ast.ImportSpec) (Import, error) {
	importPath, err := strconv.Unquote(spec.Path.Value)
	if err != nil {
		return Import{}, err
	}
	if spec.Name != nil {
		return Import{Name: spec.Name.Name, Path: importPath, Explicit: true}, nil
	}
	return Import{Name: PackageName(importPath), Path: importPath}, nil
}

// PackageName guesses the name a package is referred to by when it is
// imported without an alias: the last path element without its major
// version suffix and without the usual go-/-go decorations.
func PackageName(importPath string) string {
	prefix, _, ok := module.SplitPathVersion(importPath)
	if !ok {
		prefix = importPath
	}
	name := path.Base(prefix)
	name = strings.TrimPrefix(name, "go-")
	name = strings.TrimSuffix(name, "-go")
	name = strings.TrimSuffix(name, ".go")

	// keep what would be a valid identifier
	var b strings.Builder
	for _, r := range name {
		if r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
