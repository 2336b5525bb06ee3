package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	ServerAddr     string         `yaml:"serverAddr" env:"DMS_SERVER_ADDR" env-default:":8080"`
	DatabaseConfig DatabaseConfig `yaml:"databaseConfig"`
	RedisConfig    RedisConfig    `yaml:"redisConfig"`
	Storage        StorageConfig  `yaml:"storage"`
	JWT            JWTConfig      `yaml:"jwt"`
	Queue          QueueConfig    `yaml:"queue"`
	TTL            TTL            `yaml:"TTL"`
	Logging        LoggingConfig  `yaml:"logging"`
}

// LoadConfig : читает YAML (если файл есть), затем переменные окружения DMS_* перекрывают значения
func LoadConfig(path string) (*AppConfig, error) {
	var cfg AppConfig

	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("ошибка разбора %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка чтения переменных окружения: %w", err)
	}

	if cfg.DatabaseConfig.DSN == "" {
		return nil, fmt.Errorf("не задан databaseConfig.dsn")
	}
	if cfg.JWT.SecretKey == "" {
		return nil, fmt.Errorf("не задан jwt.secret_key")
	}

	return &cfg, nil
}

func (c *AppConfig) CacheTTL() time.Duration {
	return time.Duration(c.TTL.Cache) * time.Second
}

func SetupServer(serverAddress string) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:              serverAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server, router
}

func SetupDatabase(cfg *DatabaseConfig) (*Database, error) {
	return NewDatabaseConnection(cfg.Driver, cfg.DSN)
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}
