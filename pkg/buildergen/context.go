package buildergen

import (
	"github.com/thorn-jmh/buildergen/internal/logger"
	"github.com/thorn-jmh/buildergen/pkg/source"
)

// RuntimePath is the package generated builders import for their errors.
const RuntimePath = "github.com/thorn-jmh/buildergen/pkg/builder"

type Context struct {
	Options
	State
}

// Options are fixed for a whole run.
type Options struct {
	RuntimePath string        // import path of the runtime package
	Logger      logger.Logger // receives the rendered output when Trace is set
	Trace       bool
}

// State belongs to the output file being generated.
type State struct {
	File         *source.File
	RuntimeAlias string // identifier the runtime package is imported as
}

type Option func(*Options)

// WithRuntimePath overrides the import path of the runtime package.
func WithRuntimePath(path string) Option {
	return func(o *Options) {
		o.RuntimePath = path
	}
}

// WithTrace logs the rendered output of every generation at debug level.
func WithTrace(l logger.Logger) Option {
	return func(o *Options) {
		o.Logger = l
		o.Trace = l != nil
	}
}

func newContext(file *source.File, decls []*source.TypeDecl, opts ...Option) *Context {
	ctx := &Context{
		Options: Options{RuntimePath: RuntimePath},
		State:   State{File: file},
	}
	for _, opt := range opts {
		opt(&ctx.Options)
	}

	// the alias lives in the file block: it must not shadow any import
	// or package-level name the output file can see, nor be shadowed by
	// a type parameter inside a generated method
	n := newNamer(true)
	for _, imp := range file.Imports {
		n.reserve(imp.Name)
	}
	n.reserve(file.Names()...)
	for _, d := range decls {
		if tps := d.Spec.TypeParams; tps != nil {
			for _, tp := range tps.List {
				for _, name := range tp.Names {
					n.reserve(name.Name)
				}
			}
		}
	}
	ctx.RuntimeAlias = n.pick("buildergen")
	return ctx
}
