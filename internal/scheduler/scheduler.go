// Package scheduler triggers the bot's recurring jobs from cron specs.
package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	logx "recallbot/pkg/logx"
)

type Config struct {
	Timezone string // IANA TZ, e.g. "America/New_York"
}

type Service struct {
	mu sync.Mutex

	log logx.Logger
	cfg Config
	loc *time.Location

	parser cron.Parser
	c      *cron.Cron

	// jobCtx is the context handed to triggered jobs; set by Start so
	// cancellation reaches an in-flight run.
	jobCtx context.Context

	running bool
}

func New(cfg Config, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		cfg:    cfg,
		log:    log,
		parser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

// Start creates the cron runner. Jobs added before Start are scheduled
// on the first call; Start is idempotent.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.jobCtx = ctx

	loc := s.loadLocationLocked()
	s.loc = loc
	if s.c == nil {
		s.c = cron.New(cron.WithParser(s.parser), cron.WithLocation(loc))
	}
	s.c.Start()
	s.running = true
	s.log.Info("scheduler started", logx.String("tz", loc.String()))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// Stop halts triggering and waits for running jobs to return.
func (s *Service) Stop() {
	s.mu.Lock()
	c := s.c
	wasRunning := s.running
	s.running = false
	s.mu.Unlock()

	if c == nil || !wasRunning {
		return
	}
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		s.log.Warn("scheduler stop timed out waiting for jobs")
	}
	s.log.Info("scheduler stopped")
}

// Add registers a named job under a cron spec or @every descriptor.
// Jobs run with panic recovery; a panicking job is logged, not fatal.
func (s *Service) Add(name, spec string, job func(ctx context.Context)) error {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return fmt.Errorf("scheduler: job %q has an empty spec", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c == nil {
		s.c = cron.New(cron.WithParser(s.parser), cron.WithLocation(s.loadLocationLocked()))
	}

	_, err := s.c.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("scheduled job panicked",
					logx.String("job", name),
					logx.Any("panic", r),
					logx.String("stack", string(debug.Stack())))
			}
		}()
		started := time.Now()
		s.log.Debug("job triggered", logx.String("job", name))
		job(s.jobContext())
		s.log.Debug("job finished", logx.String("job", name), logx.Duration("took", time.Since(started)))
	})
	if err != nil {
		return fmt.Errorf("scheduler: job %q spec %q: %w", name, spec, err)
	}
	s.log.Info("job scheduled", logx.String("job", name), logx.String("spec", spec))
	return nil
}

func (s *Service) jobContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.jobCtx != nil {
		return s.jobCtx
	}
	return context.Background()
}

func (s *Service) loadLocationLocked() *time.Location {
	tz := strings.TrimSpace(s.cfg.Timezone)
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		s.log.Warn("invalid timezone; using UTC", logx.String("tz", tz), logx.Err(err))
		return time.UTC
	}
	return loc
}
