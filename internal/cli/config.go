package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/pipeline"
)

// Config holds user defaults read from config.toml. Zero values leave the
// built-in defaults in place and command-line flags always win.
//
//	width = 1280
//	height = 720
//	fps = 15
//	theme = "slate"
//	captions = true
//	cache = "redis://localhost:6379/0"
type Config struct {
	Width    int     `toml:"width"`
	Height   int     `toml:"height"`
	FPS      float64 `toml:"fps"`
	Theme    string  `toml:"theme"`
	Captions bool    `toml:"captions"`
	Cache    string  `toml:"cache"`
	Addr     string  `toml:"addr"`
}

// configPath returns the default config file location using the XDG
// standard (~/.config/stackreel/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file at path, or at the default location when
// path is empty. A missing default file yields the zero Config; a missing
// explicit file is an error.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return Config{}, nil
		}
		path = p
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Config{}, nil
		}
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "config file %s: unknown keys %s",
			path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// apply copies config values into opts for every render flag the user did
// not set explicitly.
func (cfg Config) apply(opts *pipeline.Options, flags *pflag.FlagSet) {
	unset := func(name string) bool {
		f := flags.Lookup(name)
		return f == nil || !f.Changed
	}
	if cfg.Width != 0 && unset("width") {
		opts.Width = cfg.Width
	}
	if cfg.Height != 0 && unset("height") {
		opts.Height = cfg.Height
	}
	if cfg.FPS != 0 && unset("fps") {
		opts.FPS = cfg.FPS
	}
	if cfg.Theme != "" && unset("theme") {
		opts.Theme = cfg.Theme
	}
	if cfg.Captions && unset("captions") {
		opts.Captions = true
	}
}
