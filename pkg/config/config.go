/*
Package config manages the TOML config for typr.

The file lives in the user config directory (~/.config/typr/config.toml on
Linux and macOS) and is created with defaults on first run. A file that
fails to decode is parsed section by section, so one bad value only resets
itself to its default.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/typr/internal/utils"
	"github.com/bastiangx/typr/pkg/event"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Dict   DictConfig   `toml:"dict"`
	Input  InputConfig  `toml:"input"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxLimit    int  `toml:"max_limit"`
	MinPrefix   int  `toml:"min_prefix"`
	MaxPrefix   int  `toml:"max_prefix"`
	ReloadEvery int  `toml:"reload_every"`
	FilterInput bool `toml:"filter_input"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	Path           string `toml:"path"`
	MinProbability int    `toml:"min_probability"`
}

// InputConfig selects the combiner chain. An empty Combiners list means
// the defaults for Locale.
type InputConfig struct {
	Locale    string   `toml:"locale"`
	Combiners []string `toml:"combiners"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	ShowFeedback bool `toml:"show_feedback"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:    64,
			MinPrefix:   1,
			MaxPrefix:   60,
			ReloadEvery: 500,
			FilterInput: true,
		},
		Dict: DictConfig{
			Path:           "data/dict.bin",
			MinProbability: 0,
		},
		Input: InputConfig{
			Locale:    "en_US",
			Combiners: []string{},
		},
		CLI: CliConfig{
			DefaultLimit: 10,
			ShowFeedback: true,
		},
	}
}

// CombinerKinds returns the configured combiner chain. Unknown names are
// dropped with a warning; if nothing is left the locale defaults apply.
func (c *Config) CombinerKinds() []event.CombinerKind {
	kinds, unknown := event.ParseCombinerKinds(c.Input.Combiners)
	for _, name := range unknown {
		log.Warnf("Ignoring unknown combiner %q in [input] combiners", name)
	}
	if len(kinds) == 0 {
		return event.ForLocale(c.Input.Locale)
	}
	return kinds
}

// GetConfigDir returns the config directory with fallback priority:
// 1. platform config dir (XDG_CONFIG_HOME, ~/.config, %APPDATA%)
// 2. current executable dir
func GetConfigDir() (string, error) {
	primaryPath := utils.NewPathResolver().ConfigDir()
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from the -config flag
// 2. Default path: [UserConfigDir]/typr/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if dictSection, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(dictSection, &config.Dict)
	}
	if inputSection, ok := utils.ExtractSection(tempConfig, "input"); ok {
		extractInputConfig(inputSection, &config.Input)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "min_prefix"); ok {
		server.MinPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "reload_every"); ok {
		server.ReloadEvery = val
	}
	if val, ok := utils.ExtractBool(data, "filter_input"); ok {
		server.FilterInput = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		dict.Path = val
	}
	if val, ok := utils.ExtractInt64(data, "min_probability"); ok {
		dict.MinProbability = val
	}
}

func extractInputConfig(data map[string]any, input *InputConfig) {
	if val, ok := utils.ExtractString(data, "locale"); ok {
		input.Locale = strings.TrimSpace(val)
	}
	if val, ok := utils.ExtractStringSlice(data, "combiners"); ok {
		input.Combiners = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "show_feedback"); ok {
		cli.ShowFeedback = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
