// Package config предоставялет структуры и функции для парсинга и загрузки конфига
// клиента и dev-бэкенда.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env         string `yaml:"env" env:"MILK_ENV" env-default:"local"`
	API         `yaml:"api"`
	Credentials `yaml:"credentials"`
	Session     `yaml:"session"`
	DevServer   `yaml:"dev_server"`
}

// API настройки HTTP-клиента к бэкенду.
type API struct {
	BaseURL   string        `yaml:"base_url" env:"MILK_API_URL" env-default:"http://localhost:8080/api"`
	Timeout   time.Duration `yaml:"timeout" env-default:"30s"`
	RateLimit float64       `yaml:"rate_limit"`
	RateBurst int           `yaml:"rate_burst" env-default:"1"`
	UserAgent string        `yaml:"user_agent" env-default:"milk-customer"`
}

// Credentials настройки хранилища токена и профиля.
// Backend: "file" или "redis".
type Credentials struct {
	Backend         string `yaml:"backend" env:"MILK_CREDENTIALS_BACKEND" env-default:"file"`
	FilePath        string `yaml:"file_path" env:"MILK_CREDENTIALS_FILE"`
	KeyPrefix       string `yaml:"key_prefix" env-default:"milk:"`
	RedisConnection `yaml:"redis_connection"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// Session поведение клиента при истечении сессии.
type Session struct {
	LogoutOnExpiry bool `yaml:"logout_on_expiry"`
}

// DevServer настройки локального бэкенда для разработки.
type DevServer struct {
	AddressHTTP  string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP  time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"60s"`
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"MILK_JWT_SECRET" env-default:"dev-secret"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
	RateLimit    float64       `yaml:"rate_limit" env-default:"20"`
	RateBurst    int           `yaml:"rate_burst" env-default:"40"`
	// Cache кеш ответов в redis; пустой адрес отключает кеш.
	Cache    RedisConnection `yaml:"cache"`
	CacheTTL time.Duration   `yaml:"cache_ttl" env-default:"1m"`
	// BillingInterval период дописывания сдачи молока и выставления счетов.
	BillingInterval time.Duration `yaml:"billing_interval" env-default:"1h"`
}

// Load читает конфиг по пути path. Пустой path означает только переменные окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига из CONFIG_PATH.
// Если CONFIG_PATH не задан, конфиг собирается из переменных окружения и значений по умолчанию.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"API:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"  RateLimit: %g\n"+
			"Credentials:\n"+
			"  Backend: %s\n"+
			"  FilePath: %s\n"+
			"  RedisAddr: %s\n"+
			"Session:\n"+
			"  LogoutOnExpiry: %t\n"+
			"DevServer:\n"+
			"  Address: %s\n"+
			"  TokenTTL: %s\n"+
			"  CacheAddr: %s\n",
		c.Env,
		c.BaseURL,
		c.API.Timeout,
		c.API.RateLimit,
		c.Backend,
		c.FilePath,
		c.AddressRedis,
		c.LogoutOnExpiry,
		c.AddressHTTP,
		c.TokenTTL,
		c.DevServer.Cache.AddressRedis,
	)
}
