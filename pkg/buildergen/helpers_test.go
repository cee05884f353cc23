package buildergen

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thorn-jmh/buildergen/pkg/source"
)

func loadFixture(t *testing.T, name string) *source.File {
	t.Helper()
	src, err := os.ReadFile(filepath.Join("testdata", name+".go.txt"))
	require.NoError(t, err)
	file, err := source.FromSource(name+".go", src)
	require.NoError(t, err)
	return file
}

func parseSource(t *testing.T, src string) *source.File {
	t.Helper()
	file, err := source.FromSource("input.go", []byte(src))
	require.NoError(t, err)
	return file
}

func mustGenerate(t *testing.T, file *source.File, names ...string) []byte {
	t.Helper()
	decls, err := Select(file, names, 0)
	require.NoError(t, err)
	out, err := Generate(file, decls)
	require.NoError(t, err)
	return out
}

// typeCheck type-checks the input file together with the generated one,
// resolving the runtime package from its source in this repository.
func typeCheck(t *testing.T, inputName string, input, generated []byte) {
	t.Helper()
	fset := token.NewFileSet()
	std := importer.ForCompiler(fset, "source", nil)

	rtFile, err := parser.ParseFile(fset, filepath.Join("..", "builder", "errors.go"), nil, 0)
	require.NoError(t, err)
	rt, err := (&types.Config{Importer: std}).Check(RuntimePath, fset, []*ast.File{rtFile}, nil)
	require.NoError(t, err)

	in, err := parser.ParseFile(fset, inputName, input, 0)
	require.NoError(t, err)
	gen, err := parser.ParseFile(fset, "generated.go", generated, 0)
	require.NoError(t, err, "%s", generated)

	conf := types.Config{Importer: importerFunc(func(path string) (*types.Package, error) {
		if path == RuntimePath {
			return rt, nil
		}
		return std.Import(path)
	})}
	_, err = conf.Check("example.com/fixture", fset, []*ast.File{in, gen}, nil)
	require.NoError(t, err, "%s", generated)
}

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) {
	return f(path)
}

// generatedDecls indexes the declarations of a generated file.
type generatedDecls struct {
	file    *ast.File
	types   map[string]*ast.TypeSpec
	funcs   map[string]*ast.FuncDecl            // package-level functions
	methods map[string]map[string]*ast.FuncDecl // receiver type -> name -> decl
	order   map[string][]string                 // receiver type -> method names in order
}

func parseGenerated(t *testing.T, src []byte) *generatedDecls {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "generated.go", src, parser.ParseComments)
	require.NoError(t, err, "%s", src)

	g := &generatedDecls{
		file:    f,
		types:   map[string]*ast.TypeSpec{},
		funcs:   map[string]*ast.FuncDecl{},
		methods: map[string]map[string]*ast.FuncDecl{},
		order:   map[string][]string{},
	}
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				if ts, ok := spec.(*ast.TypeSpec); ok {
					g.types[ts.Name.Name] = ts
				}
			}
		case *ast.FuncDecl:
			if d.Recv == nil {
				g.funcs[d.Name.Name] = d
				continue
			}
			recv := receiverName(d.Recv.List[0].Type)
			if g.methods[recv] == nil {
				g.methods[recv] = map[string]*ast.FuncDecl{}
			}
			g.methods[recv][d.Name.Name] = d
			g.order[recv] = append(g.order[recv], d.Name.Name)
		}
	}
	return g
}

func receiverName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return receiverName(e.X)
	case *ast.IndexExpr:
		return receiverName(e.X)
	case *ast.IndexListExpr:
		return receiverName(e.X)
	case *ast.Ident:
		return e.Name
	}
	return ""
}

// slotNames returns the field names of a generated builder struct in order.
func (g *generatedDecls) slotNames(builder string) []string {
	st := g.types[builder].Type.(*ast.StructType)
	var names []string
	for _, f := range st.Fields.List {
		for _, n := range f.Names {
			names = append(names, n.Name)
		}
	}
	return names
}

// checkedFields returns, in order, the Field values of the
// MissingFieldError literals returned by Build.
func (g *generatedDecls) checkedFields(builder string) []string {
	var fields []string
	ast.Inspect(g.methods[builder]["Build"].Body, func(n ast.Node) bool {
		kv, ok := n.(*ast.KeyValueExpr)
		if !ok {
			return true
		}
		if key, ok := kv.Key.(*ast.Ident); ok && key.Name == "Field" {
			fields = append(fields, kv.Value.(*ast.BasicLit).Value)
		}
		return true
	})
	return fields
}
