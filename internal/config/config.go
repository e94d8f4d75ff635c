// Package config loads diffclip settings and the completion API key.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the config file looked up next to the executable.
const FileName = "config.json"

// EnvPrefix prefixes the environment variables that override settings,
// e.g. DIFFCLIP_MODEL.
const EnvPrefix = "DIFFCLIP"

// Setting keys, shared with the command-line flags of the same name.
const (
	keyAPIKey  = "OpenAIKey"
	keyModel   = "model"
	keyBaseURL = "baseURL"
	keyRefine  = "refine"
	keyNotify  = "notify"
)

// flagKeys are the settings a command-line flag may override.
var flagKeys = []string{keyModel, keyRefine, keyNotify}

// ErrInvalidConfig is returned when the config file or an override cannot
// be parsed.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the effective diffclip configuration.
type Config struct {
	OpenAIKey string
	Model     string
	BaseURL   string
	Refine    bool
	Notify    string
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Model:  "gpt-3.5-turbo",
		Notify: "console",
	}
}

// Path returns the config file location: $DIFFCLIP_CONFIG when set,
// otherwise config.json in the executable's directory.
func Path() (string, error) {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, "locating executable")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), FileName), nil
}

// Load builds the effective config. Later sources win: defaults, the JSON
// file at path (a missing file is fine), the environment, then any flag in
// flags the user set explicitly. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := newViper()

	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		var parseErr viper.ConfigParseError
		if errors.As(err, &parseErr) {
			return Config{}, errors.Mark(errors.Wrapf(err, "parsing %s", path), ErrInvalidConfig)
		}
		return Config{}, errors.Wrap(err, "reading config file")
	}

	if flags != nil {
		for _, key := range flagKeys {
			f := flags.Lookup(key)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, errors.Wrapf(err, "binding flag %s", key)
			}
		}
	}

	refine, err := cast.ToBoolE(v.Get(keyRefine))
	if err != nil {
		return Config{}, errors.Mark(errors.Wrap(err, keyRefine), ErrInvalidConfig)
	}

	return Config{
		OpenAIKey: v.GetString(keyAPIKey),
		Model:     v.GetString(keyModel),
		BaseURL:   v.GetString(keyBaseURL),
		Refine:    refine,
		Notify:    v.GetString(keyNotify),
	}, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault(keyModel, d.Model)
	v.SetDefault(keyNotify, d.Notify)
	v.SetDefault(keyRefine, d.Refine)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// Names that do not follow the prefix convention.
	_ = v.BindEnv(keyAPIKey, "OPENAI_API_KEY")
	_ = v.BindEnv(keyBaseURL, EnvPrefix+"_BASE_URL")

	return v
}
