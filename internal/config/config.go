package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/thorn-jmh/errorst"
)

// EnvPrefix prefixes every environment override, e.g. BUILDERGEN_VERBOSE.
const EnvPrefix = "BUILDERGEN"

// Config is what one buildergen run is told to do.
type Config struct {
	Types   []string // type names to generate; empty selects annotated types
	Output  string   // output path, single input only
	DryRun  bool     // print instead of writing
	Verbose bool     // debug logging, including the generated source
	LogJSON bool

	// set by go generate
	GoFile string
	GoLine int
}

// RegisterFlags declares the command line flags Load reads.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringSliceP("type", "t", nil, "type names to generate builders for (default: annotated types)")
	fs.StringP("output", "o", "", "output file (default: <input>_builder_gen.go)")
	fs.Bool("dry-run", false, "print generated code to stdout instead of writing files")
	fs.BoolP("verbose", "v", false, "log debug output, including generated source")
	fs.Bool("log-json", false, "log in JSON")
}

// Load resolves the configuration from flags, then BUILDERGEN_* variables,
// then flag defaults.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, errorst.NewError("failed to bind flags: %w", err)
	}
	// go generate exports these without our prefix
	if err := v.BindEnv("gofile", "GOFILE"); err != nil {
		return nil, errorst.NewError("failed to bind GOFILE: %w", err)
	}
	if err := v.BindEnv("goline", "GOLINE"); err != nil {
		return nil, errorst.NewError("failed to bind GOLINE: %w", err)
	}

	return &Config{
		Types:   splitList(v.GetStringSlice("type")),
		Output:  v.GetString("output"),
		DryRun:  v.GetBool("dry-run"),
		Verbose: v.GetBool("verbose"),
		LogJSON: v.GetBool("log-json"),
		GoFile:  v.GetString("gofile"),
		GoLine:  v.GetInt("goline"),
	}, nil
}

// splitList accepts both repeated values and comma separated ones.
func splitList(values []string) []string {
	var ret []string
	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				ret = append(ret, s)
			}
		}
	}
	return ret
}
