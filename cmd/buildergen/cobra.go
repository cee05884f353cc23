package main

import (
	"github.com/spf13/cobra"

	"github.com/thorn-jmh/buildergen/internal/config"
	"github.com/thorn-jmh/buildergen/internal/logger"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buildergen [-t <type>] [-o <output>] [file|glob ...]",
		Short: "Generate builders for Go struct types",
		Long: `buildergen generates, for each selected struct type T, a TBuilder with one
chainable setter per field, a Build method that fails on the first field
never set, and a NewTBuilder constructor.

Types are selected with -t, or by a //buildergen:builder line in their doc
comment, or, under go generate, as the first type after the directive.

Generated names must be free in the whole package: a TBuilder or NewTBuilder
declared in another .go file of the input's directory is reported, except
in the output file being regenerated. Files excluded by build constraints
are read too.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			logger.Setup(cfg.Verbose, cfg.LogJSON)

			inputs, err := expandInputs(args, cfg)
			if err != nil {
				return err
			}
			return generateAll(cmd.Context(), cfg, inputs, cmd.OutOrStdout())
		},
	}

	config.RegisterFlags(cmd.Flags())
	return cmd
}
