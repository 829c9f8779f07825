package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ardanlabs/babbisch/errors"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "", cfg.Output)
	assert.Equal(t, FrontendAuto, cfg.Frontend)
	assert.Empty(t, cfg.Includes)
	assert.Equal(t, "cpp", cfg.CPP)
	assert.Equal(t, "castxml", cfg.CastXML)
	assert.False(t, cfg.Preprocess)
	assert.False(t, cfg.Compat.UnsignedAsInt)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ".", cfg.Generate.OutputDir)
}

func TestLoadFromFile_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "babbisch.toml")
	content := `format = "yaml"
frontend = "c"
includes = ["/usr/local/include", "third_party"]
cflags = "-DNDEBUG -std=c11"

[compat]
unsigned_as_int = true

[generate]
package = "calc"
lib = "calc"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, FrontendC, cfg.Frontend)
	assert.Equal(t, []string{"/usr/local/include", "third_party"}, cfg.Includes)
	assert.Equal(t, "-DNDEBUG -std=c11", cfg.CFlags)
	assert.True(t, cfg.Compat.UnsignedAsInt)
	assert.Equal(t, "calc", cfg.Generate.Package)
	assert.Equal(t, "castxml", cfg.CastXML, "unset keys keep defaults")
}

func TestLoadFromFile_YAML(t *testing.T) {
	data, err := yaml.Marshal(map[string]any{
		"frontend": "gccxml",
		"log": map[string]any{
			"json":  true,
			"level": "debug",
		},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "babbisch.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, FrontendGCCXML, cfg.Frontend)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "babbisch.toml")
	require.NoError(t, os.WriteFile(path, []byte(`frontend = "clang"`), 0o644))
	_, err = LoadFromFile(path)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestNewViper_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BABBISCH_FORMAT", "yaml")
	t.Setenv("BABBISCH_LOG_LEVEL", "error")

	v, err := NewViper("")
	require.NoError(t, err)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestNewViper_ProjectConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectFile), []byte(`output = "table.json"`), 0o644))

	sub := filepath.Join(root, "src", "lib")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	t.Chdir(sub)

	v, err := NewViper("")
	require.NoError(t, err)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.Equal(t, "table.json", cfg.Output)
}

func TestNewViper_ExplicitFileMustExist(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{Format: "json", Frontend: FrontendAuto, Log: LogConfig{Level: "info"}}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "yml alias", mutate: func(c *Config) { c.Format = "yml" }},
		{name: "empty level", mutate: func(c *Config) { c.Log.Level = "" }},
		{name: "bad format", mutate: func(c *Config) { c.Format = "xml" }, wantErr: true},
		{name: "bad frontend", mutate: func(c *Config) { c.Frontend = "clang" }, wantErr: true},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
