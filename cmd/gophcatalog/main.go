package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maynagashev/gophcatalog/internal/api"
	"github.com/maynagashev/gophcatalog/internal/config"
	"github.com/maynagashev/gophcatalog/internal/kdbx"
	"github.com/maynagashev/gophcatalog/internal/session"
	"github.com/maynagashev/gophcatalog/internal/tui"
)

const (
	logFileName        = "client.log"
	logFilePermissions = 0o600
	logDirPermissions  = 0o750

	metricsReadHeaderTimeout = 5 * time.Second
	metricsShutdownTimeout   = 2 * time.Second
)

// Переменные для версии и даты сборки, устанавливаются через ldflags.
//
//nolint:gochecknoglobals // Устанавливается через ldflags при сборке
var (
	version    = "dev"
	buildDate  = "unknown"
	commitHash = "N/A"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fl, err := parseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	// Если указан флаг -version, выводим информацию и выходим
	if fl.version {
		// slog пишет в файл, поэтому версию выводим через log в stdout
		log.SetOutput(os.Stdout)
		log.SetFlags(0)
		log.Println("GophCatalog Client")
		log.Printf("Version: %s", version)
		log.Printf("Build Date: %s", buildDate)
		log.Printf("Commit Hash: %s", commitHash)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, fl.envFile)
	if err != nil {
		return err
	}
	fl.apply(cfg)
	if err = cfg.Validate(); err != nil {
		return err
	}

	logFile, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	slog.Info("Запуск GophCatalog",
		"version", version,
		"server_url", cfg.ServerURL,
		"start_route", cfg.StartRoute,
		"vault", cfg.VaultPath != "",
		"debug_mode", cfg.Debug,
	)

	store, err := newTokenStore(cfg)
	if err != nil {
		return err
	}

	client := api.NewHTTPClient(cfg.ServerURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithMetrics(api.NewMetrics(prometheus.DefaultRegisterer)),
	)

	if cfg.MetricsAddr != "" {
		srv := startMetricsServer(cfg.MetricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
				slog.Warn("Ошибка остановки сервера метрик", "error", errShutdown)
			}
		}()
	}

	return tui.Start(ctx, tui.Options{
		Client:     client,
		Session:    session.New(store),
		ServerURL:  cfg.ServerURL,
		StartRoute: cfg.StartRoute,
		Debug:      cfg.Debug,
	})
}

// setupLogging настраивает логирование в файл <LogDir>/client.log.
// Экран занят TUI, поэтому в stdout ничего не пишется.
func setupLogging(cfg *config.Config) (*os.File, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	if err = os.MkdirAll(cfg.LogDir, logDirPermissions); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию для логов: %w", err)
	}
	logPath := filepath.Join(cfg.LogDir, logFileName)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть лог-файл: %w", err)
	}

	logHandler := slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(logHandler))
	slog.Info("Логгер инициализирован", "path", logPath, "level", level)
	return logFile, nil
}

// newTokenStore выбирает хранилище токена: файл KDBX или файл сессии.
func newTokenStore(cfg *config.Config) (session.Store, error) {
	if cfg.VaultPath != "" {
		store, err := kdbx.NewStore(cfg.VaultPath, cfg.VaultPassword, cfg.ServerURL)
		if err != nil {
			return nil, fmt.Errorf("ошибка открытия хранилища KDBX: %w", err)
		}
		slog.Info("Токен хранится в KDBX", "path", cfg.VaultPath)
		return store, nil
	}
	slog.Info("Токен хранится в файле сессии", "path", cfg.SessionPath)
	return session.NewFileStore(cfg.SessionPath), nil
}

// startMetricsServer запускает HTTP-сервер с метриками клиента.
func startMetricsServer(addr string) *http.Server {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}
	go func() {
		slog.Info("Сервер метрик запущен", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Ошибка сервера метрик", "error", err)
		}
	}()
	return srv
}
