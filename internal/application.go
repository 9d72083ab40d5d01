package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/config"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/service"
	"github.com/rocketscienceinc/tictactoe-minimax/transport/console"
)

// RunApp - runs one console game against the computer.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopSignals := watchSignals(ctx, log, cancel)
	defer stopSignals()

	humanMark := entity.NoMark
	if conf.HumanMark != "" {
		mark, err := entity.ParseMark(conf.HumanMark)
		if err != nil {
			return fmt.Errorf("invalid human mark: %w", err)
		}
		humanMark = mark
	}

	moveRepo, closeMoveRepo, err := newMoveRepository(ctx, log, conf.MoveCache)
	if err != nil {
		return err
	}
	defer closeMoveRepo()

	log.Debug("move cache ready", "driver", conf.MoveCache.Driver)

	botService := service.NewBotService(logger, moveRepo, !conf.SearchOpening, nil)
	gamePlayService := service.NewGamePlayService(logger, botService)

	session := console.New(logger, gamePlayService, os.Stdin, os.Stdout, console.Options{
		PlayerName:  conf.PlayerName,
		HumanMark:   humanMark,
		ClearScreen: !conf.NoClear,
	})

	// stdin reads can't be interrupted, so the session runs aside and a signal wins the race
	errCh := make(chan error, 1)
	go func() {
		errCh <- session.Start(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("console session error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// watchSignals - cancels on SIGINT or SIGTERM. The returned func unregisters the handler and
// waits for the watcher to exit.
func watchSignals(ctx context.Context, log *slog.Logger, cancel context.CancelFunc) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)

		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return func() {
		signal.Stop(sigs)
		cancel()
		<-done
	}
}

// newMoveRepository - builds the configured move cache. An unreachable Redis degrades to the
// in-memory cache.
func newMoveRepository(ctx context.Context, log *slog.Logger, conf config.MoveCache) (repository.MoveRepository, func(), error) {
	noop := func() {}

	switch conf.Driver {
	case config.CacheDriverMemory:
		return repository.NewMemoryMoveRepository(), noop, nil
	case config.CacheDriverNone:
		return nil, noop, nil
	case config.CacheDriverRedis:
	default:
		return nil, noop, fmt.Errorf("%w: %q", config.ErrUnknownCacheDriver, conf.Driver)
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr(), conf.Redis.Password, conf.Redis.DB)
	if err != nil {
		log.Warn("redis move cache unavailable, using memory", "error", err)
		return repository.NewMemoryMoveRepository(), noop, nil
	}

	closeStorage := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewMoveRepository(redisStorage.Connection, conf.TTL), closeStorage, nil
}
