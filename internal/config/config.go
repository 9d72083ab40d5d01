package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
	CacheDriverNone   = "none"
)

var ErrUnknownCacheDriver = errors.New("unknown move cache driver")

type Config struct {
	LogLevel   string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"warn"`
	HumanMark  string    `yaml:"human-mark" env:"HUMAN_MARK" env-default:""`
	PlayerName string    `yaml:"player-name" env:"PLAYER_NAME" env-default:"player"`
	MoveCache  MoveCache `yaml:"move-cache"`

	// Both default to false: env-default would override a false read from the file.
	NoClear       bool `yaml:"no-clear" env:"NO_CLEAR"`
	SearchOpening bool `yaml:"search-opening" env:"SEARCH_OPENING"`
}

type MoveCache struct {
	Driver string        `yaml:"driver" env:"MOVE_CACHE_DRIVER" env-default:"memory"`
	TTL    time.Duration `yaml:"ttl" env:"MOVE_CACHE_TTL" env-default:"0s"`
	Redis  Redis         `yaml:"redis"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Load - reads the config file at path, then the environment. A missing file leaves only
// the environment and the defaults.
func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to load config from environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to stat config file: %w", err)
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Config) Validate() error {
	switch that.MoveCache.Driver {
	case CacheDriverMemory, CacheDriverRedis, CacheDriverNone:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCacheDriver, that.MoveCache.Driver)
	}

	switch that.HumanMark {
	case "", "x", "X", "o", "O":
	default:
		return fmt.Errorf("invalid human-mark %q: want X or O", that.HumanMark)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
