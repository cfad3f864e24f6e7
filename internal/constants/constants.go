package constants

import "time"

const (
	AppName            = "chronoforge"
	DefaultKeyringUser = "session-token"
	DefaultConfigDir   = "~/.config/chronoforge"
	ConfigFileName     = "config.yaml"
	Version            = "v0.3.0"

	// DateFormat is the calendar day key used by the planning service (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the clock format used when printing blocks (HH:MM)
	TimeFormat = "15:04"

	// Remote defaults
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 15 * time.Second

	// Cache constants
	CacheBackendFile   = "file"
	CacheBackendSQLite = "sqlite"
	CacheFileName      = "last_plan.json"
	CacheDBName        = "cache.db"

	// Check-in constants
	// CheckInGraceWindow bounds how long after a block ends it may still be logged.
	CheckInGraceWindow = 2 * time.Hour

	// Reminder constants
	MaxScheduledBlocks       = 50
	BlockStartLead           = 15 * time.Minute
	CheckInReminderDelay     = 5 * time.Minute
	RemindersFileName        = "reminders.json"
	ReminderKindBlockStart   = "event"
	ReminderKindCheckIn      = "checkin"
	ReminderKindTaskDeadline = "task"

	// Notify constants
	NotifierLockfileName   = "chronoforge-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.chronoforge"
	TrayAppExecutable      = "chronoforge-tray"
	TraySecretHeader       = "X-Chronoforge-Secret"

	// Plan view
	PlanHorizonDays = 14

	// Coaching notices appended when the cached plan is shown
	NoticeCachedUnauthorized = "⚠️ Showing cached data. Reconnect to refresh."
	NoticeCachedOffline      = "⚠️ Offline. Showing last known plan."
)

// TaskDeadlineLeads are the offsets before a task's due time at which a reminder fires.
var TaskDeadlineLeads = []time.Duration{24 * time.Hour, 2 * time.Hour}
