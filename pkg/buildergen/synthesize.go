package buildergen

import (
	"github.com/dave/jennifer/jen"
)

// Shape holds the synthesized fragments of one builder. The five fragment
// lists and Names are index-aligned with the field list they came from.
type Shape struct {
	Receiver string
	Names    []FieldNames

	Slots    []*jen.Statement // `slot *T` builder fields
	Defaults []*jen.Statement // `slot: nil` factory entries
	Setters  []*jen.Statement // chainable setter methods
	Checks   []*jen.Statement // presence check + local binding in Build
	Assigns  []*jen.Statement // `Field: local` entries of the assembled value
}

// FieldNames are the identifiers chosen for one field.
type FieldNames struct {
	Field  string // as declared, key of the assembled composite literal
	Slot   string // builder field holding the optional value
	Setter string // setter method
	Param  string // setter parameter
	Local  string // binding in Build
}

func (s *Shape) Len() int {
	return len(s.Names)
}

// Synthesize maps the field descriptors to builder fragments. It cannot
// fail: every name conflict it could run into is either rejected by Extract
// or resolved here by the namers.
func Synthesize(ctx *Context, md *Metadata, fields []Field) *Shape {
	shape := &Shape{}

	// first: names. The receiver is shared by every method, so it avoids
	// everything the method bodies refer to.
	reserved := func(extra ...string) []string {
		names := make([]string, 0, len(md.TypeParams)+len(extra))
		for _, p := range md.TypeParams {
			names = append(names, p.Name)
		}
		return append(names, extra...)
	}
	shape.Receiver = newNamer(true, reserved(md.Name, ctx.RuntimeAlias)...).pick("b")

	slots := newNamer(false, builderMethods...)
	for _, f := range fields {
		slots.reserve(ExportedStyle(f.Name))
	}
	locals := newNamer(true, reserved(md.Name, ctx.RuntimeAlias, shape.Receiver)...)
	for _, f := range fields {
		shape.Names = append(shape.Names, FieldNames{
			Field:  f.Name,
			Slot:   slots.pick(UnexportedStyle(f.Name)),
			Setter: ExportedStyle(f.Name),
			Param:  newNamer(true, reserved(shape.Receiver)...).pick(UnexportedStyle(f.Name)),
			Local:  locals.pick(UnexportedStyle(f.Name)),
		})
	}

	// second: fragments, in field order
	recv := shape.Receiver
	for i, f := range fields {
		names := shape.Names[i]

		shape.Slots = append(shape.Slots, jen.Id(names.Slot).Op("*").Add(f.Type.Code()))

		shape.Defaults = append(shape.Defaults, jen.Id(names.Slot).Op(":").Nil())

		shape.Setters = append(shape.Setters, jen.
			Commentf("%s sets %s.%s.", names.Setter, md.Name, f.Name).Line().
			Func().Params(jen.Id(recv).Op("*").Add(md.instance(md.BuilderName()))).
			Id(names.Setter).Params(jen.Id(names.Param).Add(f.Type.Code())).
			Op("*").Add(md.instance(md.BuilderName())).
			Block(
				jen.Id(recv).Dot(names.Slot).Op("=").Op("&").Id(names.Param),
				jen.Return(jen.Id(recv)),
			))

		// dereferencing copies the value out: the builder stays reusable
		shape.Checks = append(shape.Checks, jen.
			If(jen.Id(recv).Dot(names.Slot).Op("==").Nil()).Block(
			jen.Return(
				md.instance(md.Name).Values(),
				jen.Op("&").Qual(ctx.RuntimePath, "MissingFieldError").Values(jen.Dict{
					jen.Id("Type"):  jen.Lit(md.Name),
					jen.Id("Field"): jen.Lit(f.Name),
				}),
			),
		).Line().
			Id(names.Local).Op(":=").Op("*").Id(recv).Dot(names.Slot))

		shape.Assigns = append(shape.Assigns, jen.Id(names.Field).Op(":").Id(names.Local))
	}

	return shape
}
