package buildergen

import (
	"github.com/dave/jennifer/jen"
)

// Assemble adds the builder of md to f: the builder type, its setters,
// Build and MustBuild, then the factory.
func Assemble(f *jen.File, ctx *Context, md *Metadata, fields []Field, shape *Shape) {
	builder := md.BuilderName()
	recv := func() *jen.Statement {
		return jen.Id(shape.Receiver).Op("*").Add(md.instance(builder))
	}

	// imports the field types need, under the names the source uses
	for _, field := range fields {
		for _, imp := range field.Type.Imports {
			f.ImportAlias(imp.Path, imp.Name)
		}
	}
	for _, p := range md.TypeParams {
		for _, imp := range p.Constraint.Imports {
			f.ImportAlias(imp.Path, imp.Name)
		}
	}

	// first: builder type, one slot per field
	f.Line().Commentf("%s builds %s values one field at a time.", builder, md.Name)
	decl := f.Type().Id(builder)
	if len(md.TypeParams) > 0 {
		decl.Types(md.typeParams()...)
	}
	decl.StructFunc(func(g *jen.Group) {
		for _, slot := range shape.Slots {
			g.Add(slot)
		}
	})

	// second: setters
	for _, setter := range shape.Setters {
		f.Line().Add(setter)
	}

	// third: Build runs every check in field order before touching the target
	f.Line().Commentf("Build returns the assembled %s. It fails with a *builder.MissingFieldError", md.Name)
	f.Comment("naming the first field, in declaration order, that was never set.")
	f.Func().Params(recv()).Id("Build").Params().Params(md.instance(md.Name), jen.Error()).BlockFunc(func(g *jen.Group) {
		for _, check := range shape.Checks {
			g.Add(check)
		}
		g.Return(md.instance(md.Name).Values(multiline(shape.Assigns)...), jen.Nil())
	})

	f.Line().Comment("MustBuild is like Build but panics if a field was never set.")
	f.Func().Params(recv()).Id("MustBuild").Params().Add(md.instance(md.Name)).Block(
		jen.List(jen.Id("v"), jen.Err()).Op(":=").Id(shape.Receiver).Dot("Build").Call(),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Panic(jen.Err()),
		),
		jen.Return(jen.Id("v")),
	)

	// fourth: factory, every slot absent
	f.Line().Commentf("%s returns a new %s with every field unset.", md.FactoryName(), builder)
	factory := f.Func().Id(md.FactoryName())
	if len(md.TypeParams) > 0 {
		factory.Types(md.typeParams()...)
	}
	factory.Params().Op("*").Add(md.instance(builder)).Block(
		jen.Return(jen.Op("&").Add(md.instance(builder)).Values(multiline(shape.Defaults)...)),
	)
}

// multiline lays composite literal entries out one per line.
func multiline(entries []*jen.Statement) []jen.Code {
	if len(entries) == 0 {
		return nil
	}
	items := make([]jen.Code, 0, len(entries)+1)
	for _, e := range entries {
		items = append(items, jen.Line().Add(e))
	}
	return append(items, jen.Line())
}
