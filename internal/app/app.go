package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/watchroom/client/internal/controller"
	"github.com/watchroom/client/internal/rooms"
	storeredis "github.com/watchroom/client/internal/store/redis"
	"github.com/watchroom/client/internal/syncer"
	"github.com/watchroom/client/pkg/ctxlogger"
	"github.com/watchroom/client/pkg/redisclient"
)

type AppConfig struct {
	Host              string  `json:"host"`
	Port              int     `json:"port"`
	LogLevel          string  `json:"log_level"`
	MembersLimit      int     `json:"members_limit"`
	ToleranceSeconds  float64 `json:"tolerance_seconds"`
	SuppressionMillis int     `json:"suppression_millis"`
	RedisHost         string  `json:"redis_host"`
	RedisPort         int     `json:"redis_port"`
	RedisPassword     string  `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.MembersLimit < 1 {
		return fmt.Errorf("members limit must be greater than 0")
	}
	if cfg.ToleranceSeconds < 0 {
		return fmt.Errorf("tolerance must not be negative")
	}
	if cfg.SuppressionMillis < 0 {
		return fmt.Errorf("suppression window must not be negative")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}),
	}
	logger := slog.New(&h)

	rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	roomStore := storeredis.NewRepo(rc, 24*14*time.Hour)
	roomsService := rooms.NewService(roomStore, &rooms.Config{
		MembersLimit: cfg.MembersLimit,
	}, logger)
	syncConfig := &syncer.Config{
		Tolerance:         cfg.ToleranceSeconds,
		SuppressionWindow: time.Duration(cfg.SuppressionMillis) * time.Millisecond,
	}
	controller := controller.NewController(roomsService, roomStore, roomStore, syncConfig, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
