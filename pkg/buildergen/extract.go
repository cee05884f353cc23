package buildergen

import (
	"go/ast"

	"github.com/thorn-jmh/buildergen/pkg/source"
)

// reserved method names of every generated builder
var builderMethods = []string{"Build", "MustBuild"}

// Extract normalizes decl into declaration metadata and its fields in
// declaration order. Anything that would make the generated code invalid
// is reported here, as a *Diagnostic, before a single fragment exists.
func Extract(file *source.File, decl *source.TypeDecl) (*Metadata, []Field, error) {
	name := decl.Name()

	// first: the declaration must be a plain struct
	if shape := decl.Shape(); !source.IsSupported(shape) {
		d := diag(decl.Pos, name, ErrUnsupportedShape, "%s declarations have no named fields", shape)
		d.Shape = shape
		return nil, nil, d
	}
	if file.DotImports {
		return nil, nil, diag(decl.Pos, name, ErrDotImport, "field types cannot be re-qualified")
	}

	md := &Metadata{
		Name:     name,
		Exported: ast.IsExported(name),
		Pos:      decl.Pos,
	}
	for _, generated := range []string{md.BuilderName(), md.FactoryName()} {
		if file.Declares(generated) {
			return nil, nil, diag(decl.Pos, name, ErrNameCollision, "%s is already declared in %s",
				generated, file.DeclaredIn(generated))
		}
	}

	conv := &typeConverter{file: file}

	// second: generic parameters
	if tps := decl.Spec.TypeParams; tps != nil {
		for _, tp := range tps.List {
			constraint, err := conv.typeRef(tp.Type)
			if err != nil {
				return nil, nil, typeDiag(file, tp.Type, name, err)
			}
			for _, n := range tp.Names {
				md.TypeParams = append(md.TypeParams, TypeParam{Name: n.Name, Constraint: constraint})
			}
		}
	}

	// third: fields, one descriptor per name
	var fields []Field
	setters := map[string]string{}
	for _, m := range builderMethods {
		setters[m] = "builder method " + m
	}
	st := decl.Spec.Type.(*ast.StructType)
	for _, f := range st.Fields.List {
		typ, err := conv.typeRef(f.Type)
		if err != nil {
			return nil, nil, typeDiag(file, f.Type, name, err)
		}

		var names []*ast.Ident
		embedded := len(f.Names) == 0
		if embedded {
			names = []*ast.Ident{{NamePos: f.Type.Pos(), Name: embeddedName(f.Type)}}
		} else {
			names = f.Names
		}

		for _, n := range names {
			// blank fields can be neither set nor named in a composite literal
			if n.Name == "_" {
				continue
			}
			setter := ExportedStyle(n.Name)
			if other, ok := setters[setter]; ok {
				return nil, nil, diag(file.Position(n.Pos()), name, ErrNameCollision,
					"setter %s of field %s clashes with %s", setter, n.Name, other)
			}
			setters[setter] = "field " + n.Name

			fields = append(fields, Field{
				Name:     n.Name,
				Type:     typ,
				Exported: ast.IsExported(n.Name),
				Embedded: embedded,
				Pos:      file.Position(n.Pos()),
			})
		}
	}

	return md, fields, nil
}

func typeDiag(file *source.File, expr ast.Expr, typeName string, err error) *Diagnostic {
	pos := file.Position(expr.Pos())
	if te, ok := err.(*typeError); ok {
		return diag(pos, typeName, te.err, "%s", te.detail)
	}
	return diag(pos, typeName, ErrUnsupportedType, "%v", err)
}

// embeddedName returns the field name Go gives an embedded field: the
// type name without pointer, package qualifier or type arguments.
func embeddedName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return embeddedName(e.X)
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(e.X)
	case *ast.IndexListExpr:
		return embeddedName(e.X)
	case *ast.ParenExpr:
		return embeddedName(e.X)
	default:
		return "_"
	}
}
