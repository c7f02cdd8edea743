package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

type Config struct {
	LogLevel     string        `yaml:"log-level" env:"TRIQUI_LOG_LEVEL" env-default:"info"`
	HTTPPort     string        `yaml:"http-port" env:"TRIQUI_HTTP_PORT" env-default:"9090"`
	SocketPort   string        `yaml:"socket-port" env:"TRIQUI_SOCKET_PORT" env-default:"9091"`
	Redis        Redis         `yaml:"redis"`
	Storage      Storage       `yaml:"storage"`
	Documents    Documents     `yaml:"documents"`
	Game         Game          `yaml:"game"`
	JWTSecretKey string        `yaml:"jwt-secret-key" env:"TRIQUI_JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token-ttl" env:"TRIQUI_TOKEN_TTL" env-default:"720h"`
}

type Redis struct {
	Host     string `yaml:"host" env:"TRIQUI_REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"TRIQUI_REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"TRIQUI_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"TRIQUI_REDIS_DB" env-default:"0"`
}

// Storage selects where device-local data lives: scores and saved games.
type Storage struct {
	Backend    string `yaml:"backend" env:"TRIQUI_STORAGE_BACKEND" env-default:"sqlite"`
	SQLitePath string `yaml:"sqlite-path" env:"TRIQUI_SQLITE_PATH" env-default:"triqui.db"`
	BoltPath   string `yaml:"bolt-path" env:"TRIQUI_BOLT_PATH" env-default:"triqui.bolt"`
	Bucket     string `yaml:"bucket" env-default:"triqui"`
}

// Documents selects the store holding shared matches.
type Documents struct {
	Backend    string `yaml:"backend" env:"TRIQUI_DOCUMENTS_BACKEND" env-default:"redis"`
	Collection string `yaml:"collection" env-default:"matches"`
}

type Game struct {
	ThinkDelay        time.Duration `yaml:"think-delay" env:"TRIQUI_THINK_DELAY" env-default:"500ms"`
	DefaultDifficulty string        `yaml:"default-difficulty" env:"TRIQUI_DEFAULT_DIFFICULTY" env-default:"medium"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
