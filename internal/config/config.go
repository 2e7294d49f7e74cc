package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "BIPQ"

	LogLevelKey           = "log.level"
	QuestionnairesPathKey = "questionnaires.path"
	ConfigDir             = ".bipq"
)

// Load reads ~/.bipq/config.toml when present and layers BIPQ_* environment
// variables on top.
func Load() (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	return LoadFrom(filepath.Join(homeDir, ConfigDir))
}

func LoadFrom(dir string) (*viper.Viper, error) {
	cfg := viper.New()
	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(dir)

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(LogLevelKey, "warn")
	cfg.SetDefault(QuestionnairesPathKey, filepath.Join(dir, "questionnaires.toml"))

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return cfg, nil
}
