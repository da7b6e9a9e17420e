package main

import (
	"fmt"
	"strings"

	"ambassador_engine/internal/cache"
	"ambassador_engine/internal/model"
	"ambassador_engine/internal/notify"
	"ambassador_engine/internal/repository"
	"ambassador_engine/pkg/auth"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"

	// Event types used as kafka topic keys contain dots.
	keyDelimiter = "::"
)

type Config struct {
	Database repository.Config `mapstructure:"database"`
	Server   ServerConfig      `mapstructure:"server"`

	TelegramAuth   auth.Config          `mapstructure:"telegramAuth"`
	TelegramNotify TelegramNotifyConfig `mapstructure:"telegramNotify"`
	Managers       ManagersConfig       `mapstructure:"managers"`

	Levels        LevelsConfig        `mapstructure:"levels"`
	Redis         cache.Config        `mapstructure:"redis"`
	Kafka         notify.KafkaConfig  `mapstructure:"kafka"`
	Notifications NotificationsConfig `mapstructure:"notifications"`

	LogLevel string `mapstructure:"logLevel"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type TelegramNotifyConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"botToken"`
}

type ManagersConfig struct {
	TelegramIDs []int64 `mapstructure:"telegramIDs"`
}

type LevelsConfig struct {
	PointsNeeded        map[int]int `mapstructure:"pointsNeeded"`
	MinLeaderboardPlace int         `mapstructure:"minLeaderboardPlace"`
}

func (c LevelsConfig) Rules() model.LevelRules {
	return model.LevelRules{
		PointsNeeded:        c.PointsNeeded,
		MinLeaderboardPlace: c.MinLeaderboardPlace,
	}
}

type NotificationsConfig struct {
	Workers int `mapstructure:"workers"`
	Buffer  int `mapstructure:"buffer"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server::host", "0.0.0.0")
	v.SetDefault("server::port", "8888")
	v.SetDefault("logLevel", "info")
	v.SetDefault("levels::minLeaderboardPlace", 10)
	v.SetDefault("redis::leaderboardTTL", "1m")
	v.SetDefault("notifications::workers", 4)
	v.SetDefault("notifications::buffer", 256)
}

func LoadConfig() (*Config, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetConfigName(configName)
	v.AddConfigPath(configPath)
	v.SetConfigType(configFormat)

	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
