package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/taskboard/internal/beacon"
	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/config"
	"github.com/colonyops/taskboard/internal/core/eventbus"
	"github.com/colonyops/taskboard/internal/core/logging"
	"github.com/colonyops/taskboard/internal/data/db"
	"github.com/colonyops/taskboard/internal/data/stores"
	"github.com/colonyops/taskboard/internal/host"
)

const busBuffer = 64

// runtime is an initialized board module with its storage, event bus and
// optional beacon. Close releases all of them.
type runtime struct {
	Module *host.Module
	Bus    *eventbus.EventBus

	beacon    *beacon.Buffer
	closeKV   func() error
	cancelBus context.CancelFunc
}

// openRuntime opens the configured storage and initializes a board module
// whose notifications go to the event bus and, when enabled, the beacon.
func openRuntime(ctx context.Context, cfg *config.Config) (*runtime, error) {
	store, closeKV, err := stores.Open(ctx, stores.Options{
		Driver:  cfg.Storage.Driver,
		DataDir: cfg.DataDir,
		DB: db.OpenOptions{
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			BusyTimeout:  cfg.Database.BusyTimeout,
		},
		RedisAddr: cfg.Storage.RedisAddr,
		RedisDB:   cfg.Storage.RedisDB,
		RedisKey:  cfg.Storage.RedisPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	bus := eventbus.New(busBuffer)
	eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))
	eventbus.RouteNotifications(bus)

	busCtx, cancel := context.WithCancel(context.Background())
	go bus.Start(busCtx)

	rt := &runtime{
		Bus:       bus,
		closeKV:   closeKV,
		cancelBus: cancel,
	}

	emit := board.EmitFunc(bus.Emit)
	if cfg.Client.Beacon && cfg.Client.ServerURL != "" {
		rt.beacon = beacon.New(beacon.Options{
			ServerURL:     cfg.Client.ServerURL,
			SimID:         cfg.Client.SimID,
			FlushInterval: cfg.Client.FlushInterval,
			Log:           logging.Component("beacon"),
		})
		emit = func(eventType string, payload any) {
			bus.Emit(eventType, payload)
			rt.beacon.Emit(eventType, payload)
		}
	}

	rt.Module = host.New(store, host.NewTarget(), logging.Component("host"))
	err = rt.Module.Init(ctx, host.Context{
		Config: host.Config{ID: cfg.Board.ID, BasePath: cfg.Board.BasePath},
		Emit:   emit,
	})
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("init board: %w", err)
	}

	return rt, nil
}

// Close tears the module down, flushes the beacon and closes storage.
func (rt *runtime) Close() {
	if rt.Module != nil {
		rt.Module.Destroy()
	}

	if rt.beacon != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rt.beacon.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to flush beacon")
		}
		cancel()
	}

	rt.cancelBus()

	if err := rt.closeKV(); err != nil {
		log.Error().Err(err).Msg("failed to close storage")
	}
}
