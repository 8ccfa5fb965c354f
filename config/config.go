package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	LogPath  string `mapstructure:"log_path"`
	LogLevel string `mapstructure:"log_level"`
}

type MysqlConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type GameConfig struct {
	// Shared passphrase granting the dungeon-master role. Compared
	// case-sensitively.
	DMPassphrase string `mapstructure:"dm_passphrase"`
	JwtSecret    string `mapstructure:"jwt_secret"`
	// Local fallback snapshot slot and its quota in bytes. Mirrors the
	// browser localStorage slot the clients keep.
	LocalCachePath  string `mapstructure:"local_cache_path"`
	LocalCacheQuota int64  `mapstructure:"local_cache_quota"`
	SaveDebounceMs  int    `mapstructure:"save_debounce_ms"`
}

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Mysql  MysqlConfig  `mapstructure:"mysql"`
	Game   GameConfig   `mapstructure:"game"`
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads config.yaml plus SHOWTIME_* env overrides. Safe to call more
// than once; only the first call parses.
func Load() (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./conf")

		v.SetEnvPrefix("SHOWTIME")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		v.SetDefault("server.port", 8090)
		v.SetDefault("server.log_level", "info")
		v.SetDefault("mysql.port", 3306)
		v.SetDefault("game.local_cache_path", "snapshot_cache.json")
		v.SetDefault("game.local_cache_quota", 5*1024*1024)
		v.SetDefault("game.save_debounce_ms", 750)

		if readErr := v.ReadInConfig(); readErr != nil {
			if _, notFound := readErr.(viper.ConfigFileNotFoundError); !notFound {
				err = fmt.Errorf("read config: %w", readErr)
				return
			}
			// env-only deployments run without a config file
		}

		c := &Config{}
		if err = v.Unmarshal(c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}
		cfg = c
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Get returns the loaded config, panicking when Load was never called.
// Matches how the rest of the codebase treats config as ambient.
func Get() *Config {
	if cfg == nil {
		panic("config not loaded")
	}
	return cfg
}

func (m MysqlConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		m.User, m.Password, m.Host, m.Port, m.Database)
}
