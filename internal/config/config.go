// Package config loads CLI settings from defaults, the repository config
// file, SEMIGIT_* environment variables and bound flags, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/GitUser-3-2-3/Semi-Git/internal/constants"
	"github.com/klauspost/compress/zlib"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyCompression = "core.compression"
	KeyLogLevel    = "log.level"

	EnvPrefix = "SEMIGIT"
)

// Settings are the resolved values commands run with.
type Settings struct {
	CompressionLevel int
	LogLevel         slog.Level
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		CompressionLevel: zlib.DefaultCompression,
		LogLevel:         slog.LevelWarn,
	}
}

// Load resolves settings into v. cfgFile, when set, must exist; otherwise
// <repoPath>/.semigit/config.yaml is read if present. repoPath may be empty
// outside a repository.
func Load(v *viper.Viper, cfgFile, repoPath string) (Settings, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case cfgFile != "":
		v.SetConfigFile(cfgFile)
	case repoPath != "":
		v.AddConfigPath(filepath.Join(repoPath, constants.SemiGit))
		v.SetConfigName(strings.TrimSuffix(constants.ConfigFile, filepath.Ext(constants.ConfigFile)))
		v.SetConfigType("yaml")
	}

	if cfgFile != "" || repoPath != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Settings{}, fmt.Errorf("failed to read config: %w", err)
			}
			slog.Debug("No config file found, using defaults and environment",
				"repo", repoPath)
		} else {
			slog.Debug("Using config file",
				"path", v.ConfigFileUsed())
		}
	}

	return resolve(v)
}

func setDefaults(v *viper.Viper) {
	defaults := Defaults()
	v.SetDefault(KeyCompression, defaults.CompressionLevel)
	v.SetDefault(KeyLogLevel, defaults.LogLevel.String())
}

func resolve(v *viper.Viper) (Settings, error) {
	settings := Defaults()

	level := v.GetInt(KeyCompression)
	if level < zlib.HuffmanOnly || level > zlib.BestCompression {
		return Settings{}, fmt.Errorf("invalid %s %d: must be between %d and %d",
			KeyCompression, level, zlib.HuffmanOnly, zlib.BestCompression)
	}
	settings.CompressionLevel = level

	if err := settings.LogLevel.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return Settings{}, fmt.Errorf("invalid %s: %w", KeyLogLevel, err)
	}

	return settings, nil
}

// NewLogger returns a text logger writing to w at the configured level.
func NewLogger(w io.Writer, settings Settings) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: settings.LogLevel}))
}
