// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTTokens               `yaml:"jwt_tokens"`
	RateLimits              `yaml:"rate_limits"`
	Rabbit                  `yaml:"rabbit"`
	SMTP                    `yaml:"smtp"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"localhost:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env-default:"localhost:6379"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTTokens хранит секреты и время жизни access и refresh токенов.
// Секреты различаются: refresh токен нельзя предъявить как access даже при replay.
type JWTTokens struct {
	AccessSecretKey  string        `yaml:"access_secret_key" env:"JWT_ACCESS_SECRET"`
	RefreshSecretKey string        `yaml:"refresh_secret_key" env:"JWT_REFRESH_SECRET"`
	AccessTokenTTL   time.Duration `yaml:"access_token_ttl" env-default:"1h"`
	RefreshTokenTTL  time.Duration `yaml:"refresh_token_ttl" env-default:"168h"`
}

// RateLimits настройки ограничения частоты запросов для логина и регистрации
type RateLimits struct {
	LoginMaxAttempts    int           `yaml:"login_max_attempts" env-default:"5"`
	LoginWindow         time.Duration `yaml:"login_window" env-default:"15m"`
	RegisterMaxAttempts int           `yaml:"register_max_attempts" env-default:"3"`
	RegisterWindow      time.Duration `yaml:"register_window" env-default:"1h"`
}

// Rabbit структура для настройки подключения к RabbitMQ
type Rabbit struct {
	RabbitURL      string `yaml:"rabbit_url" env:"RABBIT_URL"`
	RabbitExchange string `yaml:"rabbit_exchange" env-default:"notifications"`
}

// SMTP структура для настройки почтового транспорта
type SMTP struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
}

// MustLoad функция для загрузки конфига, завершает процесс при отсутствии
// файла конфига или секретов подписи токенов
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if cfg.AccessSecretKey == "" || cfg.RefreshSecretKey == "" {
		log.Fatal("jwt access and refresh secrets must be set")
	}
	if cfg.AccessSecretKey == cfg.RefreshSecretKey {
		log.Fatal("jwt access and refresh secrets must differ")
	}
	return &cfg
}
