// Package app wires configuration, logging, storage, transport, and the
// scheduler into the recall-check pipeline.
package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"recallbot/internal/config"
	"recallbot/internal/fda"
	"recallbot/internal/recall"
	"recallbot/internal/scheduler"
	"recallbot/internal/storage"
	kit "recallbot/internal/transport"
	"recallbot/internal/transport/telegram"
	logx "recallbot/pkg/logx"
)

type App struct {
	cfgm *config.Manager

	log  logx.Logger
	logs *logx.Service

	adapter kit.Adapter
	store   storage.Store
	fetcher fetcher
	sched   *scheduler.Service

	target kit.ChatTarget

	// statsMu guards the weekly-cadence marker.
	statsMu       sync.Mutex
	statsPostedOn string // "YYYYMMDD" of the last weekly stats post

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// fetcher is the fetch collaborator; the openFDA client in production,
// a stub in tests.
type fetcher interface {
	Fetch(ctx context.Context, limit, daysBack int) ([]recall.Record, error)
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	log = log.With(logx.String("comp", "app"))
	cfgm.SetLogger(logSvc.Logger().With(logx.String("comp", "config")))

	target, err := parseTarget(cfg.Telegram)
	if err != nil {
		return nil, err
	}

	adapter, err := telegram.New(telegram.Config{Token: cfg.Telegram.Token},
		logSvc.Logger().With(logx.String("comp", "telegram")))
	if err != nil {
		return nil, err
	}

	var store storage.Store
	if cfg.Storage != nil {
		busy, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
		if err != nil {
			return nil, err
		}
		st, err := storage.Open(storage.Config{
			Driver:        cfg.Storage.Driver,
			Path:          cfg.Storage.Path,
			SnapshotLimit: cfg.Storage.SnapshotLimit,
			BusyTimeout:   busy,
		}, logSvc.Logger().With(logx.String("comp", "storage")))
		if err != nil {
			return nil, err
		}
		store = st
		if store != nil {
			log.Info("storage enabled", logx.String("driver", cfg.Storage.Driver))
		}
	}

	timeout, err := config.ParseDurationOrDefault("fda.timeout", cfg.FDA.Timeout, 15*time.Second)
	if err != nil {
		return nil, err
	}
	client := fda.New(fda.Config{
		BaseURL:    cfg.FDA.BaseURL,
		Timeout:    timeout,
		RatePerSec: cfg.FDA.RatePerSec,
	}, logSvc.Logger().With(logx.String("comp", "fda")))

	sched := scheduler.New(scheduler.Config{
		Timezone: cfg.Scheduler.Timezone,
	}, logSvc.Logger().With(logx.String("comp", "scheduler")))

	return &App{
		cfgm:    cfgm,
		log:     log,
		logs:    logSvc,
		adapter: adapter,
		store:   store,
		fetcher: client,
		sched:   sched,
		target:  target,
	}, nil
}

func parseTarget(tc config.TelegramConfig) (kit.ChatTarget, error) {
	raw := strings.TrimSpace(tc.Channel)
	if raw == "" {
		return kit.ChatTarget{}, fmt.Errorf("telegram.channel is required")
	}
	chatID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return kit.ChatTarget{}, fmt.Errorf("telegram.channel %q: %w", raw, err)
	}
	return kit.ChatTarget{ChatID: chatID, ThreadID: tc.ThreadID}, nil
}

// Start launches the config watcher, schedules the check job, and
// notifies systemd readiness. It returns immediately; triggering happens
// on the scheduler's goroutines.
func (a *App) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	cfg := a.cfgm.Get()

	// Config hot reload: logging level/sinks apply live; pipeline knobs
	// are read from the manager at every run.
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		_ = a.cfgm.Watch(ctx)
	}()
	sub := a.cfgm.Subscribe(4)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer a.cfgm.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case next, ok := <-sub:
				if !ok || next == nil {
					return
				}
				a.logs.Apply(logx.Config{
					Level:   next.Logging.Level,
					Console: next.Logging.Console,
					File: logx.FileConfig{
						Enabled: next.Logging.File.Enabled,
						Path:    next.Logging.File.Path,
					},
				})
				a.log.Info("config applied")
			}
		}
	}()

	if cfg.Scheduler.Enabled {
		if err := a.sched.Add("recall-check", cfg.Scheduler.CheckSpec, func(jctx context.Context) {
			a.RunCheck(jctx)
		}); err != nil {
			return err
		}
		a.sched.Start(ctx)
	} else {
		a.log.Warn("scheduler disabled; only -once runs will do anything")
	}

	a.notifySystemd(ctx)

	a.log.Info("started")
	return nil
}

// notifySystemd sends READY and keeps the watchdog fed when the process
// runs under a systemd unit with WatchdogSec set. Outside systemd both
// calls are no-ops.
func (a *App) notifySystemd(ctx context.Context) {
	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		a.log.Debug("sd_notify failed", logx.Err(err))
	} else if ok {
		a.log.Debug("sd_notify ready sent")
	}

	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		t := time.NewTicker(interval / 2)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			}
		}
	}()
}

func (a *App) Stop(ctx context.Context) error {
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	if a.cancel != nil {
		a.cancel()
	}
	a.sched.Stop()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		a.log.Warn("shutdown timed out")
	}

	if a.store != nil {
		_ = a.store.Close()
	}
	_ = a.adapter.Close()
	_ = a.logs.Close()
	return nil
}
