package app

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"recallbot/internal/config"
	"recallbot/internal/recall"
	"recallbot/internal/storage"
	kit "recallbot/internal/transport"
	logx "recallbot/pkg/logx"
)

type stubFetcher struct {
	records []recall.Record
	err     error
	calls   int
}

func (s *stubFetcher) Fetch(ctx context.Context, limit, daysBack int) ([]recall.Record, error) {
	s.calls++
	return s.records, s.err
}

type recordingAdapter struct {
	sent []string
	fail bool
}

func (r *recordingAdapter) SendText(ctx context.Context, to kit.ChatTarget, text string, opt *kit.SendOptions) (kit.MessageRef, error) {
	if r.fail {
		return kit.MessageRef{}, errors.New("send failed")
	}
	r.sent = append(r.sent, text)
	return kit.MessageRef{ChatID: to.ChatID, MessageID: len(r.sent)}, nil
}

func (r *recordingAdapter) Close() error { return nil }

func testApp(t *testing.T, f fetcher, ad kit.Adapter, cfg *config.Config) *App {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfgm := config.NewManager(filepath.Join(t.TempDir(), "config.json"))
	cfgm.Commit(cfg)

	st, err := storage.Open(storage.Config{
		Driver: "file",
		Path:   filepath.Join(t.TempDir(), "state"),
	}, logx.Nop())
	if err != nil {
		t.Fatal(err)
	}

	return &App{
		cfgm:    cfgm,
		log:     logx.Nop(),
		adapter: ad,
		store:   st,
		fetcher: f,
		target:  kit.ChatTarget{ChatID: -100},
	}
}

func TestRunCheckNotifiesNewRecalls(t *testing.T) {
	t.Parallel()
	ad := &recordingAdapter{}
	f := &stubFetcher{records: []recall.Record{
		{ProductDescription: "granola", ReportDate: "20240115", ReasonForRecall: "undeclared peanut"},
	}}
	a := testApp(t, f, ad, nil)

	a.RunCheck(context.Background())
	if len(ad.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(ad.sent))
	}
	if !strings.Contains(ad.sent[0], "granola") {
		t.Fatalf("notification text: %q", ad.sent[0])
	}
}

func TestRunCheckSecondRunIsQuiet(t *testing.T) {
	t.Parallel()
	ad := &recordingAdapter{}
	f := &stubFetcher{records: []recall.Record{
		{ProductDescription: "granola", ReportDate: "20240115"},
	}}
	a := testApp(t, f, ad, nil)

	a.RunCheck(context.Background())
	a.RunCheck(context.Background())
	if len(ad.sent) != 1 {
		t.Fatalf("snapshot should suppress repeat notifications, got %d sends", len(ad.sent))
	}
}

func TestRunCheckEmptyFetchIsTerminal(t *testing.T) {
	t.Parallel()
	ad := &recordingAdapter{}
	a := testApp(t, &stubFetcher{}, ad, nil)

	a.RunCheck(context.Background())
	if len(ad.sent) != 0 {
		t.Fatalf("empty fetch must not notify, got %d sends", len(ad.sent))
	}

	// Snapshot untouched by an empty run.
	if prev := a.loadSnapshot(context.Background()); len(prev) != 0 {
		t.Fatalf("snapshot written on empty run: %+v", prev)
	}
}

func TestRunCheckFetchErrorIsNonFatal(t *testing.T) {
	t.Parallel()
	ad := &recordingAdapter{}
	a := testApp(t, &stubFetcher{err: errors.New("timeout")}, ad, nil)
	a.RunCheck(context.Background()) // must not panic or notify
	if len(ad.sent) != 0 {
		t.Fatalf("failed fetch must not notify, got %d sends", len(ad.sent))
	}
}

func TestRunCheckQuietNote(t *testing.T) {
	t.Parallel()
	ad := &recordingAdapter{}
	cfg := &config.Config{}
	cfg.Notify.NotifyWhenQuiet = true
	a := testApp(t, &stubFetcher{}, ad, cfg)

	a.RunCheck(context.Background())
	if len(ad.sent) != 1 || !strings.Contains(ad.sent[0], "no new recalls") {
		t.Fatalf("expected quiet note, got %v", ad.sent)
	}
}

func TestRunCheckDeliveryFailureDoesNotAbort(t *testing.T) {
	t.Parallel()
	ad := &recordingAdapter{fail: true}
	f := &stubFetcher{records: []recall.Record{
		{ProductDescription: "granola", ReportDate: "20240115"},
	}}
	a := testApp(t, f, ad, nil)

	a.RunCheck(context.Background())

	// The snapshot still advances: the run completed.
	if prev := a.loadSnapshot(context.Background()); len(prev) != 1 {
		t.Fatalf("snapshot not saved after delivery failure: %+v", prev)
	}
}

func TestSelectForNotificationPriorityFirst(t *testing.T) {
	t.Parallel()
	fresh := []recall.Record{
		{ProductDescription: "low", ReportDate: "20240120"},
		{ProductDescription: "high", ReportDate: "20240110", ReasonForRecall: "salmonella"},
		{ProductDescription: "medium", ReportDate: "20240115", Classification: "Class II"},
	}
	got := selectForNotification(fresh, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 selected, got %d", len(got))
	}
	if got[0].ProductDescription != "high" || got[1].ProductDescription != "medium" {
		t.Fatalf("selection order: %q, %q", got[0].ProductDescription, got[1].ProductDescription)
	}
}

func TestRunStatsAlwaysCadence(t *testing.T) {
	t.Parallel()
	ad := &recordingAdapter{}
	cfg := &config.Config{}
	cfg.Stats.Cadence = "always"
	cfg.Stats.MinWindow = 1
	f := &stubFetcher{records: []recall.Record{
		{ProductDescription: "granola", ReportDate: "20240115", ReasonForRecall: "undeclared peanut"},
	}}
	a := testApp(t, f, ad, cfg)

	a.RunCheck(context.Background())
	if len(ad.sent) != 2 {
		t.Fatalf("expected recall alert + stats summary, got %d sends", len(ad.sent))
	}
	if !strings.Contains(ad.sent[1], "Statistics") {
		t.Fatalf("second message is not a stats summary: %q", ad.sent[1])
	}
}

func TestWeeklyCadencePostsOncePerDay(t *testing.T) {
	t.Parallel()
	ad := &recordingAdapter{}
	cfg := &config.Config{}
	cfg.Stats.Cadence = "weekly"
	cfg.Stats.Weekday = time.Now().Weekday().String()
	cfg.Stats.MinWindow = 1
	f := &stubFetcher{records: []recall.Record{
		{ProductDescription: "granola", ReportDate: "20240115"},
	}}
	a := testApp(t, f, ad, cfg)

	a.RunCheck(context.Background())
	if len(ad.sent) != 2 {
		t.Fatalf("expected recall alert + weekly stats on the posting day, got %d sends", len(ad.sent))
	}

	// Same day, second run: the posted-on marker suppresses a repeat.
	a.RunCheck(context.Background())
	if len(ad.sent) != 2 {
		t.Fatalf("stats posted twice in one day, got %d sends", len(ad.sent))
	}
}

func TestWeeklyCadenceSkipsOtherDays(t *testing.T) {
	t.Parallel()
	ad := &recordingAdapter{}
	cfg := &config.Config{}
	cfg.Stats.Cadence = "weekly"
	cfg.Stats.Weekday = time.Now().AddDate(0, 0, 1).Weekday().String()
	f := &stubFetcher{records: []recall.Record{
		{ProductDescription: "granola", ReportDate: "20240115"},
	}}
	a := testApp(t, f, ad, cfg)

	a.RunCheck(context.Background())
	if len(ad.sent) != 1 {
		t.Fatalf("stats must not post on a non-matching weekday, got %d sends", len(ad.sent))
	}
}

func TestNeverCadencePostsNoStats(t *testing.T) {
	t.Parallel()
	for _, cadence := range []string{"never", "", "sometimes"} {
		ad := &recordingAdapter{}
		cfg := &config.Config{}
		cfg.Stats.Cadence = cadence
		f := &stubFetcher{records: []recall.Record{
			{ProductDescription: "granola", ReportDate: "20240115"},
		}}
		a := testApp(t, f, ad, cfg)

		a.RunCheck(context.Background())
		if len(ad.sent) != 1 {
			t.Fatalf("cadence %q: expected the alert only, got %d sends", cadence, len(ad.sent))
		}
	}
}

func TestParseWeekday(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want time.Weekday
	}{
		{in: "Monday", want: time.Monday},
		{in: "friday", want: time.Friday},
		{in: " Saturday ", want: time.Saturday},
		{in: "", want: time.Sunday},
		{in: "someday", want: time.Sunday},
	}
	for _, tt := range tests {
		if got := parseWeekday(tt.in); got != tt.want {
			t.Fatalf("parseWeekday(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRunStatsRefetchesSmallWindow(t *testing.T) {
	t.Parallel()
	ad := &recordingAdapter{}
	cfg := &config.Config{}
	cfg.Stats.MinWindow = 10
	f := &stubFetcher{records: []recall.Record{
		{ProductDescription: "granola", ReportDate: "20240115"},
	}}
	a := testApp(t, f, ad, cfg)

	a.RunStats(context.Background(), nil)
	if f.calls != 1 {
		t.Fatalf("expected a re-fetch for the wider window, got %d calls", f.calls)
	}
	if len(ad.sent) != 1 {
		t.Fatalf("expected one stats message, got %d", len(ad.sent))
	}
}

func TestParseTarget(t *testing.T) {
	t.Parallel()
	got, err := parseTarget(config.TelegramConfig{Channel: "-1001234", ThreadID: 7})
	if err != nil {
		t.Fatalf("parseTarget: %v", err)
	}
	if got.ChatID != -1001234 || got.ThreadID != 7 {
		t.Fatalf("target = %+v", got)
	}
	if _, err := parseTarget(config.TelegramConfig{Channel: ""}); err == nil {
		t.Fatal("expected error for empty channel")
	}
	if _, err := parseTarget(config.TelegramConfig{Channel: "@channel"}); err == nil {
		t.Fatal("expected error for non-numeric channel")
	}
}
