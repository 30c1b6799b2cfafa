package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
	"github.com/svrx-labs/svrx/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Known configuration keys.
const (
	KeyVersion  = "svrx"
	KeyRegistry = "registry"
	KeySilent   = "silent"
)

// Keys lists the settings accepted by Set, in display order.
var Keys = []string{KeyVersion, KeyRegistry, KeySilent}

// Dir is the svrx home (~/.svrx), overridable with SVRX_HOME. The config
// file lives at its top level, beside versions/ and plugins/.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath is the config file inside Dir.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Load points Viper at the config file and SVRX_* environment variables.
// A missing or unreadable file leaves only the defaults in place.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()
	viper.SetDefault(KeyRegistry, branding.RegistryURL())
	viper.SetDefault(KeySilent, false)

	_ = viper.ReadInConfig()
}

// Get returns the string form of key, or "" when unset.
func Get(key string) string {
	return viper.GetString(key)
}

// GetBool returns key as a boolean.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// Set stores key and rewrites the config file. Boolean keys are stored as
// YAML booleans rather than strings.
func Set(key, value string) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	if key == KeySilent {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", key, err)
		}
		viper.Set(key, b)
	} else {
		viper.Set(key, value)
	}

	path := FilePath()
	err := viper.SafeWriteConfigAs(path)
	var exists viper.ConfigFileAlreadyExistsError
	if errors.As(err, &exists) {
		err = viper.WriteConfigAs(path)
	}
	if err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}
