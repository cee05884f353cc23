package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/thorn-jmh/errorst"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/thorn-jmh/buildergen/internal/config"
	"github.com/thorn-jmh/buildergen/internal/logger"
	"github.com/thorn-jmh/buildergen/internal/output"
	"github.com/thorn-jmh/buildergen/pkg/buildergen"
	"github.com/thorn-jmh/buildergen/pkg/source"
)

var (
	ErrNoInput       = errorst.NewError("no input files")
	ErrOutputPerFile = errorst.NewError("-o needs exactly one input file")
)

// expandInputs turns arguments into input files. Without arguments the
// file running go generate is used.
func expandInputs(args []string, cfg *config.Config) ([]string, error) {
	if len(args) == 0 {
		if cfg.GoFile == "" {
			return nil, errorst.Wrap(ErrNoInput, "pass files or run under go generate")
		}
		args = []string{cfg.GoFile}
	}

	var inputs []string
	seen := make(map[string]struct{})
	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, errorst.NewError("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 && !hasMeta(arg) {
			// a plain path: let the parser report it if missing
			matches = []string{arg}
		}
		for _, m := range matches {
			if output.IsGenerated(m) {
				logger.Debug("skipping generated file", "path", m)
				continue
			}
			if filepath.Ext(m) != ".go" {
				if !hasMeta(arg) {
					logger.Warn("ignoring non-Go input", "path", m)
				}
				continue
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			inputs = append(inputs, m)
		}
	}

	if len(inputs) == 0 {
		return nil, errorst.Wrap(ErrNoInput, "nothing matched %v", args)
	}
	if cfg.Output != "" && len(inputs) > 1 {
		return nil, errorst.Wrap(ErrOutputPerFile, "got %d", len(inputs))
	}
	logger.Debug("expanded inputs", "args", args, "inputs", inputs)
	return inputs, nil
}

func hasMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{', '\\':
			return true
		}
	}
	return false
}

type result struct {
	input string
	out   string
	code  []byte
}

// generateAll generates every input concurrently. Each generation is
// independent, so results are collected by index and written in input order.
// A failing input does not stop the others; cancelling ctx stops the run
// before anything is written.
func generateAll(ctx context.Context, cfg *config.Config, inputs []string, stdout io.Writer) error {
	results := make([]*result, len(inputs))
	errs := make([]error, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = generateOne(cfg, input)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, r := range results {
		if r == nil {
			continue
		}
		if cfg.DryRun {
			if _, err := fmt.Fprintf(stdout, "// %s\n%s", r.out, r.code); err != nil {
				errs[i] = err
			}
			continue
		}
		if err := output.WriteFile(r.out, r.code, 0o644); err != nil {
			errs[i] = err
			continue
		}
		logger.Info("generated builders", "input", r.input, "output", r.out)
	}

	return multierr.Combine(errs...)
}

func generateOne(cfg *config.Config, input string) (*result, error) {
	file, err := source.FromFile(input)
	if err != nil {
		return nil, err
	}

	out := cfg.Output
	if out == "" {
		out = output.PathFor(input)
	}
	// builder names must be free in the whole package, except in the
	// output about to be replaced
	if err := file.LoadPackage(out); err != nil {
		return nil, err
	}

	// $GOLINE only refers to the file go generate is running
	line := 0
	if cfg.GoFile != "" && filepath.Clean(cfg.GoFile) == filepath.Clean(input) {
		line = cfg.GoLine
	}
	decls, err := buildergen.Select(file, cfg.Types, line)
	if err != nil {
		return nil, err
	}

	var opts []buildergen.Option
	if cfg.Verbose {
		opts = append(opts, buildergen.WithTrace(logger.GetDefault()))
	}
	code, err := buildergen.Generate(file, decls, opts...)
	if err != nil {
		return nil, err
	}
	return &result{input: input, out: out, code: code}, nil
}
