package buildergen

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/dave/jennifer/jen"

	"github.com/thorn-jmh/buildergen/pkg/source"
)

// >>>>>>>>>>>> normalized description of one declaration >>>>>>>>>>>>>>>

// BuilderSuffix is appended to the target type name to name its builder.
const BuilderSuffix = "Builder"

// Metadata describes the target declaration itself.
type Metadata struct {
	Name       string         // target type name
	Exported   bool           // visibility of the target
	TypeParams []TypeParam    // generic parameters, in order
	Pos        token.Position // position of the type name
}

type TypeParam struct {
	Name       string
	Constraint TypeRef
}

// Field describes one settable field of the target.
type Field struct {
	Name     string  // field name; embedded fields are named after their type
	Type     TypeRef // declared type, passed through untouched
	Exported bool    // visibility of the field
	Embedded bool
	Pos      token.Position
}

// TypeRef is an opaque reference to a type expression of the source file.
// It knows how to render itself and which imports that rendering needs.
type TypeRef struct {
	Expr    ast.Expr
	Imports []source.Import

	code *jen.Statement
}

// Code returns the type as jennifer code. The stored statement is wrapped,
// never extended, so a TypeRef can be rendered any number of times.
func (t TypeRef) Code() *jen.Statement {
	return jen.Add(t.code)
}

func (t TypeRef) String() string {
	return types.ExprString(t.Expr)
}

// BuilderName returns the name of the generated builder type.
func (m *Metadata) BuilderName() string {
	return m.Name + BuilderSuffix
}

// FactoryName returns the name of the generated constructor; its
// visibility follows the target.
func (m *Metadata) FactoryName() string {
	if m.Exported {
		return "New" + m.BuilderName()
	}
	return "new" + ExportedStyle(m.BuilderName())
}

// instance renders Name or Name[P1, P2...] for a declared generic type.
func (m *Metadata) instance(name string) *jen.Statement {
	if len(m.TypeParams) == 0 {
		return jen.Id(name)
	}
	var args []jen.Code
	for _, p := range m.TypeParams {
		args = append(args, jen.Id(p.Name))
	}
	return jen.Id(name).Types(args...)
}

// typeParams renders the declaration form [P1 C1, P2 C2...].
func (m *Metadata) typeParams() []jen.Code {
	var params []jen.Code
	for _, p := range m.TypeParams {
		params = append(params, jen.Id(p.Name).Add(p.Constraint.Code()))
	}
	return params
}
