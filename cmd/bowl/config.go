// Config loading for the bowl CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDataDir   = "data_dir"
	cfgKeyLogLevel  = "log_level"
	cfgKeyLogFormat = "log_format"

	defaultLogLevel  = "warn"
	defaultLogFormat = "text"

	envPrefix = "BOWL"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	DataDir   string `yaml:"data_dir,omitempty"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// loadConfig reads config.yaml from the config directory using Viper. A
// missing config.yaml is not an error. The log settings may be overridden
// with BOWL_LOG_LEVEL and BOWL_LOG_FORMAT; BOWL_DATA_DIR is handled by
// paths.ResolveDataDir after the config value.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyLogFormat, defaultLogFormat)
	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{cfgKeyLogLevel, cfgKeyLogFormat} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(configDir, dataDir string) (string, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	path := filepath.Join(configDir, configFileExt)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&configFile{
		DataDir:   dataDir,
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
	})
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	header := []byte("# bowl CLI configuration\n")
	return path, os.WriteFile(path, append(header, data...), 0o644)
}
