package notify

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/time/rate"

	kit "recallbot/internal/transport"
	logx "recallbot/pkg/logx"
)

// Config controls the delivery pipeline.
type Config struct {
	Target        kit.ChatTarget
	RatePerSec    int
	RetryMax      int
	RetryBase     time.Duration
	RetryMaxDelay time.Duration
}

// Tally is the per-run delivery outcome.
type Tally struct {
	Sent   int
	Failed int
}

// Service delivers rendered payloads through the adapter with a token
// bucket rate limit and bounded retry. One delivery pass is sequential:
// the run model is single-threaded and message order matters (highest
// priority recalls are enqueued first).
type Service struct {
	log     logx.Logger
	adapter kit.Adapter
	cfg     Config
	limiter *rate.Limiter
}

func New(cfg Config, adapter kit.Adapter, log logx.Logger) *Service {
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 1
	}
	if cfg.RetryMax < 0 {
		cfg.RetryMax = 0
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	if cfg.RetryMaxDelay <= 0 {
		cfg.RetryMaxDelay = 10 * time.Second
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		log:     log,
		adapter: adapter,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec),
	}
}

// Send delivers one payload, retrying transient failures with
// exponential backoff and jitter.
func (s *Service) Send(ctx context.Context, p Payload) error {
	opt := &kit.SendOptions{ParseMode: "HTML", DisablePreview: true}

	var lastErr error
	for attempt := 0; attempt <= s.cfg.RetryMax; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		_, err := s.adapter.SendText(ctx, s.cfg.Target, p.Text, opt)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == s.cfg.RetryMax {
			break
		}
		delay := s.cfg.RetryBase << uint(attempt)
		if delay > s.cfg.RetryMaxDelay {
			delay = s.cfg.RetryMaxDelay
		}
		delay += time.Duration(rand.Int63n(int64(delay/2) + 1))
		s.log.Debug("delivery failed; retrying",
			logx.Err(err), logx.Int("attempt", attempt+1), logx.Duration("delay", delay))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

// DeliverAll sends every payload in order. A failed message is logged
// and counted; it never stops the rest of the batch.
func (s *Service) DeliverAll(ctx context.Context, payloads []Payload) Tally {
	var t Tally
	for _, p := range payloads {
		if err := s.Send(ctx, p); err != nil {
			t.Failed++
			s.log.Error("notification delivery failed", logx.Err(err))
			continue
		}
		t.Sent++
	}
	return t
}
