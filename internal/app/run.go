package app

import (
	"context"
	"sort"
	"strings"
	"time"

	"recallbot/internal/config"
	"recallbot/internal/notify"
	"recallbot/internal/recall"
	"recallbot/internal/stats"
	logx "recallbot/pkg/logx"
)

// RunCheck performs one full pipeline pass: fetch, novelty detection,
// formatting, delivery, snapshot save, and the stats cadence decision.
// Every failure mode inside the pass is non-fatal; a check run always
// returns.
func (a *App) RunCheck(ctx context.Context) {
	cfg := a.cfgm.Get()
	log := a.log.With(logx.String("run", "check"))

	records, err := a.fetcher.Fetch(ctx, cfg.FDA.Limit, cfg.FDA.DaysBack)
	if err != nil {
		// Treated as "no data", not as a run failure.
		log.Warn("fetch failed; treating run as empty", logx.Err(err))
		records = nil
	}
	if len(records) == 0 {
		log.Info("no recall data this run")
		if cfg.Notify.NotifyWhenQuiet {
			a.notifier(cfg).DeliverAll(ctx, []notify.Payload{notify.FormatQuiet()})
		}
		return
	}

	previous := a.loadSnapshot(ctx)
	fresh := recall.IdentifyNew(records, previous)
	log.Info("novelty detection done",
		logx.Int("fetched", len(records)),
		logx.Int("previous", len(previous)),
		logx.Int("new", len(fresh)))

	if len(fresh) == 0 {
		if cfg.Notify.NotifyWhenQuiet {
			a.notifier(cfg).DeliverAll(ctx, []notify.Payload{notify.FormatQuiet()})
		}
	} else {
		selected := selectForNotification(fresh, cfg.Notify.MaxPerRun)
		payloads := make([]notify.Payload, 0, len(selected))
		for _, rec := range selected {
			payloads = append(payloads, notify.Format(rec, cfg.Notify.MaxFieldLen))
		}
		tally := a.notifier(cfg).DeliverAll(ctx, payloads)
		log.Info("delivery pass finished",
			logx.Int("sent", tally.Sent), logx.Int("failed", tally.Failed))
	}

	a.saveSnapshot(ctx, records)
	a.maybeStats(ctx, cfg, records)
}

// selectForNotification picks the per-run notification subset: highest
// priority tiers first, newest first within a tier (the novelty detector
// already ordered by date, and the sort is stable).
func selectForNotification(fresh []recall.Record, maxPerRun int) []recall.Record {
	if maxPerRun <= 0 {
		maxPerRun = 5
	}
	out := append([]recall.Record(nil), fresh...)
	sort.SliceStable(out, func(i, j int) bool {
		return recall.DeterminePriority(out[i]) > recall.DeterminePriority(out[j])
	})
	if len(out) > maxPerRun {
		out = out[:maxPerRun]
	}
	return out
}

// RunStats posts the aggregate summary. When the provided window is
// smaller than the configured minimum it re-fetches with the wider
// stats window first.
func (a *App) RunStats(ctx context.Context, window []recall.Record) {
	cfg := a.cfgm.Get()
	log := a.log.With(logx.String("run", "stats"))

	minWindow := cfg.Stats.MinWindow
	if minWindow <= 0 {
		minWindow = 20
	}
	if len(window) < minWindow {
		limit := cfg.Stats.FetchLimit
		if limit <= 0 {
			limit = 100
		}
		lookback := cfg.Stats.LookbackDays
		if lookback <= 0 {
			lookback = 30
		}
		wider, err := a.fetcher.Fetch(ctx, limit, lookback)
		if err != nil {
			log.Warn("stats re-fetch failed; using original window", logx.Err(err))
		} else if len(wider) > len(window) {
			window = wider
		}
	}

	summary := stats.Aggregate(window)
	payload := notify.Payload{Text: summary.Text()}
	tally := a.notifier(cfg).DeliverAll(ctx, []notify.Payload{payload})
	log.Info("stats posted",
		logx.Int("window", len(window)),
		logx.Bool("empty", summary.Empty),
		logx.Int("failed", tally.Failed))
}

// maybeStats applies the cadence policy after a check run.
func (a *App) maybeStats(ctx context.Context, cfg *config.Config, window []recall.Record) {
	switch strings.ToLower(strings.TrimSpace(cfg.Stats.Cadence)) {
	case "always":
		a.RunStats(ctx, window)
	case "weekly":
		if !a.weeklyDue(cfg.Stats.Weekday) {
			return
		}
		a.RunStats(ctx, window)
	default:
		// "never", "", or anything unrecognized: no periodic stats.
	}
}

// weeklyDue reports whether today is the configured posting day and no
// stats were posted yet today. The marker is in-memory only: a restart
// on the posting day may post again, which beats missing a week.
func (a *App) weeklyDue(weekday string) bool {
	want := parseWeekday(weekday)
	now := time.Now()
	if now.Weekday() != want {
		return false
	}
	today := now.Format("20060102")

	a.statsMu.Lock()
	defer a.statsMu.Unlock()
	if a.statsPostedOn == today {
		return false
	}
	a.statsPostedOn = today
	return true
}

func parseWeekday(s string) time.Weekday {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monday":
		return time.Monday
	case "tuesday":
		return time.Tuesday
	case "wednesday":
		return time.Wednesday
	case "thursday":
		return time.Thursday
	case "friday":
		return time.Friday
	case "saturday":
		return time.Saturday
	default:
		return time.Sunday
	}
}

// notifier builds the delivery service for the current config. The
// adapter persists across runs; the service itself is cheap and picks up
// config changes between runs.
func (a *App) notifier(cfg *config.Config) *notify.Service {
	retryBase, _ := config.ParseDurationOrDefault("notify.retry_base", cfg.Notify.RetryBase, 500*time.Millisecond)
	retryMaxDelay, _ := config.ParseDurationOrDefault("notify.retry_max_delay", cfg.Notify.RetryMaxDelay, 10*time.Second)
	return notify.New(notify.Config{
		Target:        a.target,
		RatePerSec:    cfg.Notify.RatePerSec,
		RetryMax:      cfg.Notify.RetryMax,
		RetryBase:     retryBase,
		RetryMaxDelay: retryMaxDelay,
	}, a.adapter, a.log.With(logx.String("comp", "notify")))
}

func (a *App) loadSnapshot(ctx context.Context) []recall.Record {
	if a.store == nil {
		return nil
	}
	prev, err := a.store.LoadSnapshot(ctx)
	if err != nil {
		a.log.Warn("snapshot load failed; starting empty", logx.Err(err))
		return nil
	}
	return prev
}

func (a *App) saveSnapshot(ctx context.Context, records []recall.Record) {
	if a.store == nil {
		return
	}
	if err := a.store.SaveSnapshot(ctx, records); err != nil {
		a.log.Error("snapshot save failed", logx.Err(err))
	}
}
