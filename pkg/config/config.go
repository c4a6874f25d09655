// Package config loads openmodel settings from a TOML file.
//
// The default location follows the XDG convention:
//
//	$XDG_CONFIG_HOME/openmodel/config.toml   (usually ~/.config/openmodel/config.toml)
//
// A missing file is not an error; every setting has a default. Example:
//
//	[store]
//	backend = "redis"
//	compress = true
//
//	[store.redis]
//	addr = "localhost:6379"
//
//	[render]
//	default_color = [0.7, 0.7, 0.75]
//	smooth = true
//
//	[server]
//	addr = ":8080"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/render"
	"github.com/matzehuels/openmodel/pkg/store"
)

const appName = "openmodel"

// Config is the complete settings file.
type Config struct {
	Store  store.Config `toml:"store"`
	Render Render       `toml:"render"`
	Server Server       `toml:"server"`
}

// Render holds vertex buffer export settings.
type Render struct {
	DefaultColor [3]float32 `toml:"default_color"`
	Smooth       bool       `toml:"smooth"` // indexed buffers with vertex normals
}

// Options converts the settings to [render.Options].
func (r Render) Options() render.Options {
	return render.Options{DefaultColor: r.DefaultColor}
}

// Server holds HTTP server settings.
type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

// Duration is a time.Duration written as a string such as "15s".
type Duration struct{ time.Duration }

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings. The store directory is resolved
// under the XDG data directory; it is left empty if no home directory can
// be found.
func Default() Config {
	dir, _ := DataDir()
	return Config{
		Store: store.Config{
			Backend: store.BackendFile,
			Dir:     dir,
		},
		Render: Render{DefaultColor: render.DefaultOptions().DefaultColor},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
			MaxBodyBytes: 64 << 20,
		},
	}
}

// Load reads path on top of [Default]. An empty path selects [Path]; a
// missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.CodeInvalidInput, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.CodeInvalidInput, "config %s: unknown key %s", path, undecoded[0])
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	for i, v := range c.Render.DefaultColor {
		if v < 0 || v > 1 {
			return errors.New(errors.CodeInvalidInput, "render.default_color[%d] = %g outside [0, 1]", i, v)
		}
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.CodeInvalidInput, "server.max_body_bytes must be positive")
	}
	return nil
}

// Write encodes cfg as TOML to path, creating parent directories.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// =============================================================================
// Paths
// =============================================================================

// Path returns the default config file location.
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DataDir returns the default file store directory (~/.local/share/openmodel/documents).
func DataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName, "documents"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName, "documents"), nil
}
