package main

import (
	"flag"
	"fmt"

	"github.com/maynagashev/gophcatalog/internal/config"
)

const defaultEnvFile = ".env"

// flags хранит значения флагов командной строки.
// Заданные явно флаги переопределяют переменные окружения.
type flags struct {
	envFile     string
	version     bool
	serverURL   string
	route       string
	sessionPath string
	vaultPath   string
	metricsAddr string
	logLevel    string
	debug       bool

	set map[string]bool // Имена флагов, заданных явно
}

// parseFlags разбирает аргументы командной строки.
func parseFlags(args []string) (*flags, error) {
	f := &flags{set: map[string]bool{}}
	env := func(name string) string { return config.EnvPrefix + name }

	fs := flag.NewFlagSet("gophcatalog", flag.ContinueOnError)
	fs.StringVar(&f.envFile, "env-file", defaultEnvFile, "Путь к .env файлу с настройками")
	fs.BoolVar(&f.version, "version", false, "Показать версию и дату сборки")
	fs.StringVar(&f.serverURL, "server-url", "",
		fmt.Sprintf("URL API каталога, например http://127.0.0.1:8000 (env: %s)", env("SERVER_URL")))
	fs.StringVar(&f.route, "route", "",
		fmt.Sprintf("Начальный экран: /, /signup, /product, /product/{id} (env: %s)", env("START_ROUTE")))
	fs.StringVar(&f.sessionPath, "session", "",
		fmt.Sprintf("Файл для хранения токена (env: %s)", env("SESSION_PATH")))
	fs.StringVar(&f.vaultPath, "vault", "",
		fmt.Sprintf("Файл KDBX для хранения токена вместо файла сессии (env: %s)", env("VAULT_PATH")))
	fs.StringVar(&f.metricsAddr, "metrics-addr", "",
		fmt.Sprintf("Адрес HTTP-сервера метрик Prometheus (env: %s)", env("METRICS_ADDR")))
	fs.StringVar(&f.logLevel, "log-level", "",
		fmt.Sprintf("Уровень логирования: debug, info, warn, error (env: %s)", env("LOG_LEVEL")))
	fs.BoolVar(&f.debug, "debug", false,
		fmt.Sprintf("Включить отладочную панель TUI (env: %s)", env("DEBUG")))

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

// apply переносит явно заданные флаги в конфигурацию.
func (f *flags) apply(cfg *config.Config) {
	if f.set["server-url"] {
		cfg.ServerURL = f.serverURL
	}
	if f.set["route"] {
		cfg.StartRoute = f.route
	}
	if f.set["session"] {
		cfg.SessionPath = f.sessionPath
	}
	if f.set["vault"] {
		cfg.VaultPath = f.vaultPath
	}
	if f.set["metrics-addr"] {
		cfg.MetricsAddr = f.metricsAddr
	}
	if f.set["log-level"] {
		cfg.LogLevel = f.logLevel
	}
	if f.set["debug"] {
		cfg.Debug = f.debug
	}
}
