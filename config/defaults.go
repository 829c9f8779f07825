package config

import (
	"github.com/spf13/viper"
)

// ProjectFile is the config file looked up from the working directory
// towards the filesystem root.
const ProjectFile = "babbisch.toml"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Analysis output
	v.SetDefault("format", "json")
	v.SetDefault("output", "") // stdout

	// Front ends
	v.SetDefault("frontend", FrontendAuto)
	v.SetDefault("includes", []string{})
	v.SetDefault("cflags", "")
	v.SetDefault("preprocess", false)
	v.SetDefault("cpp", "cpp")
	v.SetDefault("castxml", "castxml")

	v.SetDefault("compat.unsigned_as_int", false)

	// Logging
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "warn")

	// Binding generator. Empty package and lib names are derived from
	// the input file name.
	v.SetDefault("generate.package", "")
	v.SetDefault("generate.lib", "")
	v.SetDefault("generate.output_dir", ".")
}
