// Package config holds babbisch settings loaded through viper from
// defaults, an optional babbisch.toml, BABBISCH_* environment variables
// and command-line flags.
package config

// Front ends that turn an input file into a declaration tree.
const (
	FrontendAuto    = "auto"
	FrontendC       = "c"
	FrontendGCCXML  = "gccxml"
	FrontendCastXML = "castxml"
)

// Frontends lists the accepted frontend values.
var Frontends = []string{FrontendAuto, FrontendC, FrontendGCCXML, FrontendCastXML}

type Config struct {
	Format     string         `mapstructure:"format"`
	Output     string         `mapstructure:"output"`
	Frontend   string         `mapstructure:"frontend"`
	Includes   []string       `mapstructure:"includes"`
	CFlags     string         `mapstructure:"cflags"`
	Preprocess bool           `mapstructure:"preprocess"`
	CPP        string         `mapstructure:"cpp"`
	CastXML    string         `mapstructure:"castxml"`
	Compat     CompatConfig   `mapstructure:"compat"`
	Log        LogConfig      `mapstructure:"log"`
	Generate   GenerateConfig `mapstructure:"generate"`
}

// CompatConfig switches on historical behavior.
type CompatConfig struct {
	UnsignedAsInt bool `mapstructure:"unsigned_as_int"` // map "unsigned" onto "int"
}

type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// GenerateConfig configures the binding generator.
type GenerateConfig struct {
	Package   string `mapstructure:"package"`
	Lib       string `mapstructure:"lib"`
	OutputDir string `mapstructure:"output_dir"`
}
