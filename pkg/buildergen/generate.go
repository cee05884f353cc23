package buildergen

import (
	"bytes"

	"github.com/dave/jennifer/jen"
	"github.com/thorn-jmh/errorst"
	"go.uber.org/multierr"
	"golang.org/x/tools/imports"

	"github.com/thorn-jmh/buildergen/pkg/source"
)

// Header is the first line of every generated file.
const Header = "Code generated by buildergen. DO NOT EDIT."

// Select resolves which declarations of file get a builder:
//  1. the named types, when names is not empty, each once;
//  2. otherwise the annotated declarations;
//  3. otherwise, when line > 0, the first declaration below that line
//     (the position of a go:generate directive).
func Select(file *source.File, names []string, line int) ([]*source.TypeDecl, error) {
	if len(names) > 0 {
		var (
			decls []*source.TypeDecl
			errs  error
		)
		seen := make(map[string]struct{}, len(names))
		for _, name := range names {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			d := file.Lookup(name)
			if d == nil {
				errs = multierr.Append(errs, diag(file.Position(0), name, ErrDeclNotFound, "in %s", file.Path))
				continue
			}
			decls = append(decls, d)
		}
		return decls, errs
	}

	if decls := file.Annotated(); len(decls) > 0 {
		return decls, nil
	}
	if line > 0 {
		if d := file.After(line); d != nil {
			return []*source.TypeDecl{d}, nil
		}
	}
	return nil, errorst.Wrap(ErrNoDeclarations, "no type named, annotated with %s or following line %d in %s",
		source.Annotation, line, file.Path)
}

// Generate renders one Go file holding the builders of decls, all taken
// from file. Diagnostics of every declaration are reported together and no
// output is produced if there is any.
func Generate(file *source.File, decls []*source.TypeDecl, opts ...Option) ([]byte, error) {
	if len(decls) == 0 {
		return nil, errorst.Wrap(ErrNoDeclarations, "nothing to generate for %s", file.Path)
	}
	ctx := newContext(file, decls, opts...)

	// first: extract everything, so all diagnostics surface in one pass
	type unit struct {
		md     *Metadata
		fields []Field
	}
	var (
		units []unit
		errs  error
	)
	seen := make(map[*source.TypeDecl]struct{}, len(decls))
	for _, decl := range decls {
		if _, ok := seen[decl]; ok {
			errs = multierr.Append(errs, diag(decl.Pos, decl.Name(), ErrNameCollision,
				"%s selected twice", decl.Name()))
			continue
		}
		seen[decl] = struct{}{}

		md, fields, err := Extract(file, decl)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		units = append(units, unit{md, fields})
	}
	if errs != nil {
		return nil, errs
	}

	// second: synthesize and assemble, in selection order
	f := jen.NewFile(file.Package)
	f.HeaderComment(Header)
	f.ImportAlias(ctx.RuntimePath, ctx.RuntimeAlias)
	for _, u := range units {
		Assemble(f, ctx, u.md, u.fields, Synthesize(ctx, u.md, u.fields))
	}

	// third: render
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, errorst.Wrap(err, "failed to render builders for %s", file.Path)
	}
	out, err := imports.Process(file.Path, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, errorst.Wrap(err, "failed to format builders for %s", file.Path)
	}

	if ctx.Trace {
		ctx.Logger.Debug("generated builders", "file", file.Path, "types", len(units), "source", string(out))
	}
	return out, nil
}
