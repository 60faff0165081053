// Package config loads cubeanim settings from defaults, an optional
// cubeanim.yaml and CUBEANIM_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/SeamusWaldron/cubeanim/internal/tween"
)

// EnvPrefix prefixes environment overrides, e.g. CUBEANIM_LOG_LEVEL.
const EnvPrefix = "CUBEANIM"

// TempoConfig holds the duration formula and easing of one tempo.
type TempoConfig struct {
	Base   time.Duration `mapstructure:"base"`
	PerRep time.Duration `mapstructure:"per_rep"`
	Ease   string        `mapstructure:"ease"`
}

// Config holds all settings.
type Config struct {
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	DB struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"db"`
	Solver struct {
		Command string   `mapstructure:"command"`
		Args    []string `mapstructure:"args"`
	} `mapstructure:"solver"`
	Tempo struct {
		Normal   TempoConfig `mapstructure:"normal"`
		Scramble TempoConfig `mapstructure:"scramble"`
	} `mapstructure:"tempo"`
	Engine struct {
		AnimateTimeout time.Duration `mapstructure:"animate_timeout"`
	} `mapstructure:"engine"`
	Scramble struct {
		Length int `mapstructure:"length"`
	} `mapstructure:"scramble"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "")

	v.SetDefault("solver.command", "")
	v.SetDefault("solver.args", []string{})

	v.SetDefault("tempo.normal.base", "700ms")
	v.SetDefault("tempo.normal.per_rep", "300ms")
	v.SetDefault("tempo.normal.ease", "back.inOut(1)")
	v.SetDefault("tempo.scramble.base", "150ms")
	v.SetDefault("tempo.scramble.per_rep", "0s")
	v.SetDefault("tempo.scramble.ease", "power1.inOut")

	v.SetDefault("engine.animate_timeout", "0s")
	v.SetDefault("scramble.length", 25)
}

// Load reads configuration. If file is empty, cubeanim.yaml is searched
// for in the working directory and in $HOME/.cubeanim; a missing file is
// not an error. An explicitly named file must exist.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("cubeanim")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".cubeanim"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if cfg.Scramble.Length < 0 {
		return nil, fmt.Errorf("scramble.length must not be negative, got %d", cfg.Scramble.Length)
	}
	return &cfg, nil
}

// Presets builds the tempo presets described by the config.
func (c *Config) Presets() (tween.Presets, error) {
	normal, err := c.Tempo.Normal.preset()
	if err != nil {
		return nil, fmt.Errorf("tempo.normal: %w", err)
	}
	scramble, err := c.Tempo.Scramble.preset()
	if err != nil {
		return nil, fmt.Errorf("tempo.scramble: %w", err)
	}
	return tween.Presets{
		tween.Normal:   normal,
		tween.Scramble: scramble,
	}, nil
}

func (t TempoConfig) preset() (tween.Preset, error) {
	if t.Base < 0 || t.PerRep < 0 {
		return tween.Preset{}, fmt.Errorf("negative duration")
	}
	ease, err := tween.ParseEase(t.Ease)
	if err != nil {
		return tween.Preset{}, err
	}
	return tween.Preset{Base: t.Base, PerRep: t.PerRep, Ease: ease}, nil
}
