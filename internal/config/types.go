package config

// Config is the whole bot configuration. It is decoded strictly
// (unknown fields are rejected) so typos surface at load time instead of
// silently disabling features.
//
// All durations are Go duration strings (e.g. "500ms", "15s", "1m").
type Config struct {
	Telegram  TelegramConfig  `json:"telegram"`
	Logging   LoggingConfig   `json:"logging"`
	FDA       FDAConfig       `json:"fda"`
	Notify    NotifyConfig    `json:"notify"`
	Stats     StatsConfig     `json:"stats"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Storage   *StorageConfig  `json:"storage,omitempty"`
}

type TelegramConfig struct {
	Token string `json:"token"`
	// Channel is the target chat id (e.g. "-1001234567890").
	Channel string `json:"channel"`
	// ThreadID is a forum topic id (0 if the chat has no topics).
	ThreadID int `json:"thread_id,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// FDAConfig controls the openFDA enforcement fetch window.
type FDAConfig struct {
	// BaseURL overrides the API endpoint (tests); empty means the public API.
	BaseURL string `json:"base_url,omitempty"`
	// Limit is the number of records per fetch (API max 1000).
	Limit int `json:"limit"`
	// DaysBack restricts the fetch to a report_date window; 0 disables it.
	DaysBack   int    `json:"days_back"`
	Timeout    string `json:"timeout,omitempty"`
	RatePerSec int    `json:"rate_per_sec,omitempty"`
}

// NotifyConfig controls formatting and the delivery pipeline.
type NotifyConfig struct {
	// MaxPerRun caps how many new recalls get posted per check run.
	MaxPerRun int `json:"max_per_run"`
	// MaxFieldLen truncates product/reason text in rendered messages.
	MaxFieldLen   int    `json:"max_field_len,omitempty"`
	RatePerSec    int    `json:"rate_per_sec,omitempty"`
	RetryMax      int    `json:"retry_max,omitempty"`
	RetryBase     string `json:"retry_base,omitempty"`
	RetryMaxDelay string `json:"retry_max_delay,omitempty"`
	// NotifyWhenQuiet posts a short "no new recalls" note on empty runs.
	NotifyWhenQuiet bool `json:"notify_when_quiet,omitempty"`
}

// StatsConfig controls the periodic statistics summary.
//
// Cadence values:
//   - "weekly": post on the configured weekday (first check run that day)
//   - "always": post after every check run
//   - "never":  disabled
type StatsConfig struct {
	Cadence string `json:"cadence"`
	// Weekday names the posting day for the weekly cadence (e.g. "Sunday").
	Weekday      string `json:"weekday,omitempty"`
	LookbackDays int    `json:"lookback_days,omitempty"`
	// MinWindow re-fetches with FetchLimit when the check window has fewer records.
	MinWindow  int `json:"min_window,omitempty"`
	FetchLimit int `json:"fetch_limit,omitempty"`
}

type SchedulerConfig struct {
	Enabled bool `json:"enabled"`
	// CheckSpec is a cron spec or @every descriptor for the recall check job.
	CheckSpec string `json:"check_spec"`
	// Timezone is an IANA TZ name, e.g. "America/New_York".
	Timezone string `json:"timezone,omitempty"`
}

// StorageConfig controls the snapshot store.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./recallbot_state" }
type StorageConfig struct {
	Driver string `json:"driver"`
	Path   string `json:"path"`
	// SnapshotLimit bounds how many records the snapshot keeps (default 50).
	SnapshotLimit int    `json:"snapshot_limit,omitempty"`
	BusyTimeout   string `json:"busy_timeout,omitempty"` // sqlite only
}
