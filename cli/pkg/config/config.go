// Package config resolves the CLI's config directory and layers TOML files,
// COURTSIDE_* environment variables and flag overrides with viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

const appName = "courtside"

// defaults also defines which keys `courtside config` accepts
var defaults = map[string]any{
	"api.base_url":   "http://localhost:8787",
	"api.timeout":    30,
	"output.format":  "text",
	"feed.page_size": 10,
	"feed.max_pages": 50,
	"log.level":      "info",
	"log.file":       "", // filled in by Init
}

var (
	configDir       string
	configFilePath  string
	credentialsPath string
)

// userConfigDir is %LOCALAPPDATA%\courtside on Windows and
// $XDG_CONFIG_HOME/courtside or ~/.config/courtside elsewhere
func userConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		for _, env := range []string{"LOCALAPPDATA", "APPDATA"} {
			if v := os.Getenv(env); v != "" {
				return filepath.Join(v, appName), nil
			}
		}
	} else if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, appName), nil
	}
	return filepath.Join(home, ".config", appName), nil
}

// systemConfigFile returns the first machine-wide config that exists
func systemConfigFile() (string, bool) {
	candidates := []string{"/etc/courtside/config.toml", "/usr/local/etc/courtside/config.toml"}
	if runtime.GOOS == "windows" {
		candidates = []string{filepath.Join(os.Getenv("ProgramFiles"), "Courtside", "config.toml")}
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// Init loads configuration. The system file is read first and the user file
// (configPath, or config.toml in the config directory) is merged over it.
// Either may be missing.
func Init(configPath string) error {
	if configPath == "" {
		dir, err := userConfigDir()
		if err != nil {
			return err
		}
		configPath = filepath.Join(dir, "config.toml")
	}
	configFilePath = configPath
	configDir = filepath.Dir(configPath)
	credentialsPath = filepath.Join(configDir, "credentials")

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	viper.Reset()
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("COURTSIDE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for key, value := range defaults {
		viper.SetDefault(key, value)
	}
	viper.SetDefault("log.file", filepath.Join(configDir, "courtside.log"))

	if sys, ok := systemConfigFile(); ok {
		viper.SetConfigFile(sys)
		_ = viper.ReadInConfig()
	}
	viper.SetConfigFile(configFilePath)
	if _, err := os.Stat(configFilePath); err == nil {
		if err := viper.MergeInConfig(); err != nil {
			return fmt.Errorf("read %s: %w", configFilePath, err)
		}
	}
	return nil
}

// Keys lists every known key in sorted order
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func IsKnownKey(key string) bool {
	_, ok := defaults[key]
	return ok
}

// GetString returns the value for key. log.file has ~ expanded.
func GetString(key string) string {
	v := viper.GetString(key)
	if key == "log.file" {
		return expandPath(v)
	}
	return v
}

func GetInt(key string) int {
	return viper.GetInt(key)
}

// Set overrides key for this process only
func Set(key string, value any) {
	viper.Set(key, value)
}

// SetString stores key in the user config file
func SetString(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	viper.Set(key, value)
	return viper.WriteConfigAs(configFilePath)
}

func expandPath(path string) string {
	rest, ok := strings.CutPrefix(path, "~")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

func GetConfigDir() string       { return configDir }
func GetConfigFile() string      { return configFilePath }
func GetCredentialsPath() string { return credentialsPath }
