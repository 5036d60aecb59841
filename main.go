package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"whiteboard/internal/board"
	"whiteboard/internal/config"
	"whiteboard/internal/middleware"
	"whiteboard/internal/object"
	"whiteboard/internal/persist"
	"whiteboard/internal/server"
	"whiteboard/internal/transport"
	"whiteboard/internal/user"
)

const (
	cleanupInterval = 5 * time.Minute
	sessionIdle     = 30 * time.Minute
	connectEvery    = 200 * time.Millisecond
	connectBurst    = 10
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// the sink outlives ctx so writes made while the hubs stop still get flushed
	sinkCtx, stopSink := context.WithCancel(context.Background())
	defer stopSink()
	sinkDone := make(chan struct{})

	var sink persist.Sink = persist.Nop{}
	if cfg.PersistenceEnabled() {
		redisSink, err := persist.NewRedisSink(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.PersistInterval, log.Logger)
		if err != nil {
			return err
		}
		defer redisSink.Close()
		sink = redisSink
		go func() {
			defer close(sinkDone)
			redisSink.Run(sinkCtx)
		}()
		log.Info().Str("addr", cfg.RedisAddr).Msg("persisting boards to redis")
	} else {
		close(sinkDone)
	}

	limits := &middleware.Limits{
		MaxRoomSize:       cfg.MaxRoomSize,
		MaxObjects:        cfg.MaxObjects,
		MaxMessageSize:    cfg.MaxMessageSize,
		MaxRooms:          cfg.MaxRooms,
		MessagesPerSecond: cfg.MessagesPerSecond,
		BurstSize:         cfg.BurstSize,
		CursorThrottle:    cfg.CursorThrottle,
	}

	registry := board.NewRegistry(board.Options{
		PresenceTTL:    cfg.PresenceTTL,
		SweepInterval:  cfg.SweepInterval,
		MaxObjects:     limits.MaxObjects,
		MaxSubscribers: limits.MaxRoomSize,
		Sink:           sink,
		Validator:      object.NewValidator(),
		Logger:         log.Logger,
	}, cfg.DrainGrace, limits.MaxRooms)

	sessions := user.NewSessionManager(limits.MessagesPerSecond, limits.BurstSize)
	connectLimit := middleware.NewIPRateLimit(connectEvery, connectBurst)

	ws := transport.NewManager(registry, sessions, transport.Options{
		AllowedOrigins: cfg.Origins(),
		JoinTimeout:    cfg.JoinTimeout,
		PongWait:       cfg.PongWait,
		OutboxSize:     cfg.OutboxSize,
		Limits:         limits,
	}, log.Logger)

	go cleanup(ctx, sessions, connectLimit)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewRouter(registry, ws, connectLimit.Handler, log.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			registry.Close()
			stopSink()
			<-sinkDone
			return err
		}
	}
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	// hijacked websocket connections are not tracked by Shutdown; closing the hubs ends them
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	registry.Close()
	stopSink()
	<-sinkDone

	log.Info().Msg("stopped")
	return nil
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

// cleanup: periodically forgets idle sessions and per-IP limiters
func cleanup(ctx context.Context, sessions *user.SessionManager, connectLimit *middleware.IPRateLimit) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := sessions.Cleanup(sessionIdle)
			ips := connectLimit.Cleanup(sessionIdle)
			if s > 0 || ips > 0 {
				log.Debug().Int("sessions", s).Int("ips", ips).Msg("cleanup")
			}
		}
	}
}
