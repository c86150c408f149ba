// Package config загружает настройки клиента из окружения и .env файла.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// EnvPrefix - префикс переменных окружения клиента.
const EnvPrefix = "GOPHCATALOG_"

// Config - настройки клиента.
type Config struct {
	ServerURL      string        `env:"SERVER_URL, default=http://127.0.0.1:8000"`
	SessionPath    string        `env:"SESSION_PATH, default=gophcatalog.session"`
	VaultPath      string        `env:"VAULT_PATH"`
	VaultPassword  string        `env:"VAULT_PASSWORD"`
	StartRoute     string        `env:"START_ROUTE, default=/"`
	LogDir         string        `env:"LOG_DIR, default=logs"`
	LogLevel       string        `env:"LOG_LEVEL, default=debug"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=0s"`
	MetricsAddr    string        `env:"METRICS_ADDR"`
	Debug          bool          `env:"DEBUG, default=false"`
}

// Load читает настройки. Переменные окружения приоритетнее значений
// из envFile; отсутствующий envFile не является ошибкой.
func Load(ctx context.Context, envFile string) (*Config, error) {
	fileValues := map[string]string{}
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileValues = values
		case errors.Is(err, os.ErrNotExist):
			slog.Debug("Файл .env не найден", "path", envFile)
		default:
			return nil, fmt.Errorf("ошибка чтения файла '%s': %w", envFile, err)
		}
	}

	var cfg Config
	lookuper := envconfig.PrefixLookuper(EnvPrefix, envconfig.MultiLookuper(
		envconfig.OsLookuper(),
		envconfig.MapLookuper(fileValues),
	))
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	return &cfg, nil
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("некорректный URL сервера: %q", c.ServerURL)
	}
	if c.VaultPath != "" && c.VaultPassword == "" {
		return errors.New("для файла KDBX требуется пароль (" + EnvPrefix + "VAULT_PASSWORD)")
	}
	if c.VaultPath == "" && c.SessionPath == "" {
		return errors.New("не указан путь к файлу сессии")
	}
	if c.RequestTimeout < 0 {
		return errors.New("таймаут запроса не может быть отрицательным")
	}
	if _, err = c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel возвращает уровень логирования.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelDebug, fmt.Errorf("некорректный уровень логирования %q: %w", c.LogLevel, err)
	}
	return level, nil
}
