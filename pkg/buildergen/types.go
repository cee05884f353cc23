package buildergen

import (
	"fmt"
	"go/ast"
	"go/types"

	"github.com/dave/jennifer/jen"

	"github.com/thorn-jmh/buildergen/pkg/source"
)

// typeConverter turns type expressions of one source file into jennifer
// code. Package selectors become jen.Qual so the output file imports what
// the field types need; the imports used are remembered per conversion.
type typeConverter struct {
	file *source.File
	used []source.Import
}

// typeError carries the sentinel describing why an expression could not be converted.
type typeError struct {
	err    error
	detail string
}

func (e *typeError) Error() string {
	return fmt.Sprintf("%v: %s", e.err, e.detail)
}

func (c *typeConverter) typeRef(expr ast.Expr) (TypeRef, error) {
	c.used = nil
	code, err := c.convert(expr)
	if err != nil {
		return TypeRef{}, err
	}
	return TypeRef{Expr: expr, Imports: c.used, code: code}, nil
}

func (c *typeConverter) use(imp source.Import) {
	for _, u := range c.used {
		if u.Path == imp.Path {
			return
		}
	}
	c.used = append(c.used, imp)
}

func (c *typeConverter) convert(expr ast.Expr) (*jen.Statement, error) {
	switch e := expr.(type) {
	case *ast.Ident:
		return jen.Id(e.Name), nil

	case *ast.SelectorExpr:
		pkg, ok := e.X.(*ast.Ident)
		if !ok {
			return nil, &typeError{ErrUnsupportedType, types.ExprString(e)}
		}
		imp, ok := c.file.ImportByName(pkg.Name)
		if !ok {
			return nil, &typeError{ErrUnresolvedQualifier, fmt.Sprintf("%s in %s", pkg.Name, types.ExprString(e))}
		}
		c.use(imp)
		return jen.Qual(imp.Path, e.Sel.Name), nil

	case *ast.StarExpr:
		x, err := c.convert(e.X)
		if err != nil {
			return nil, err
		}
		return jen.Op("*").Add(x), nil

	case *ast.ParenExpr:
		x, err := c.convert(e.X)
		if err != nil {
			return nil, err
		}
		return jen.Parens(x), nil

	case *ast.ArrayType:
		elt, err := c.convert(e.Elt)
		if err != nil {
			return nil, err
		}
		if e.Len == nil {
			return jen.Index().Add(elt), nil
		}
		n, err := c.convert(e.Len)
		if err != nil {
			return nil, err
		}
		return jen.Index(n).Add(elt), nil

	case *ast.MapType:
		k, err := c.convert(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := c.convert(e.Value)
		if err != nil {
			return nil, err
		}
		return jen.Map(k).Add(v), nil

	case *ast.ChanType:
		v, err := c.convert(e.Value)
		if err != nil {
			return nil, err
		}
		switch e.Dir {
		case ast.SEND:
			return jen.Chan().Op("<-").Add(v), nil
		case ast.RECV:
			return jen.Op("<-").Chan().Add(v), nil
		default:
			return jen.Chan().Add(v), nil
		}

	case *ast.FuncType:
		return c.funcType(jen.Func(), e)

	case *ast.InterfaceType:
		var items []jen.Code
		for _, m := range e.Methods.List {
			if len(m.Names) == 0 {
				// embedded interface or type set element
				x, err := c.convert(m.Type)
				if err != nil {
					return nil, err
				}
				items = append(items, x)
				continue
			}
			ft, ok := m.Type.(*ast.FuncType)
			if !ok {
				return nil, &typeError{ErrUnsupportedType, "interface method " + m.Names[0].Name}
			}
			method, err := c.funcType(jen.Id(m.Names[0].Name), ft)
			if err != nil {
				return nil, err
			}
			items = append(items, method)
		}
		return jen.Interface(items...), nil

	case *ast.StructType:
		var items []jen.Code
		for _, f := range e.Fields.List {
			t, err := c.convert(f.Type)
			if err != nil {
				return nil, err
			}
			// the raw tag keeps anonymous struct types identical to the source
			withTag := func(s *jen.Statement) *jen.Statement {
				if f.Tag != nil {
					return s.Op(f.Tag.Value)
				}
				return s
			}
			if len(f.Names) == 0 {
				items = append(items, withTag(jen.Add(t)))
				continue
			}
			for _, n := range f.Names {
				items = append(items, withTag(jen.Id(n.Name).Add(t)))
			}
		}
		return jen.Struct(items...), nil

	case *ast.IndexExpr:
		x, err := c.convert(e.X)
		if err != nil {
			return nil, err
		}
		idx, err := c.convert(e.Index)
		if err != nil {
			return nil, err
		}
		return x.Types(idx), nil

	case *ast.IndexListExpr:
		x, err := c.convert(e.X)
		if err != nil {
			return nil, err
		}
		var args []jen.Code
		for _, idx := range e.Indices {
			a, err := c.convert(idx)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		return x.Types(args...), nil

	case *ast.Ellipsis:
		elt, err := c.convert(e.Elt)
		if err != nil {
			return nil, err
		}
		return jen.Op("...").Add(elt), nil

	// array lengths and type set elements
	case *ast.BasicLit:
		return jen.Id(e.Value), nil

	case *ast.UnaryExpr:
		x, err := c.convert(e.X)
		if err != nil {
			return nil, err
		}
		return jen.Op(e.Op.String()).Add(x), nil

	case *ast.BinaryExpr:
		x, err := c.convert(e.X)
		if err != nil {
			return nil, err
		}
		y, err := c.convert(e.Y)
		if err != nil {
			return nil, err
		}
		return x.Op(e.Op.String()).Add(y), nil

	default:
		return nil, &typeError{ErrUnsupportedType, types.ExprString(expr)}
	}
}

// funcType appends the signature of ft to head (func keyword or method name).
func (c *typeConverter) funcType(head *jen.Statement, ft *ast.FuncType) (*jen.Statement, error) {
	params, err := c.fieldList(ft.Params)
	if err != nil {
		return nil, err
	}
	head.Params(params...)

	if ft.Results == nil || len(ft.Results.List) == 0 {
		return head, nil
	}
	if len(ft.Results.List) == 1 && len(ft.Results.List[0].Names) == 0 {
		r, err := c.convert(ft.Results.List[0].Type)
		if err != nil {
			return nil, err
		}
		return head.Add(r), nil
	}
	results, err := c.fieldList(ft.Results)
	if err != nil {
		return nil, err
	}
	return head.Params(results...), nil
}

func (c *typeConverter) fieldList(fl *ast.FieldList) ([]jen.Code, error) {
	if fl == nil {
		return nil, nil
	}
	var items []jen.Code
	for _, f := range fl.List {
		t, err := c.convert(f.Type)
		if err != nil {
			return nil, err
		}
		if len(f.Names) == 0 {
			items = append(items, t)
			continue
		}
		for _, n := range f.Names {
			items = append(items, jen.Id(n.Name).Add(t))
		}
	}
	return items, nil
}
