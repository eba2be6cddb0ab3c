// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds PhotoShare's own configuration, loaded by LoadConfig
// alongside WAFFLE's CoreConfig (ports, TLS, log level, CORS).
//
// Every field maps to a PHOTOSHARE_* environment variable, a config file key,
// or a command-line flag of the same snake_case name.
type AppConfig struct {
	// DataMode selects the data service: "remote" (MongoDB) or "local"
	// (in-memory, seeded).
	DataMode string

	// MongoDB connection configuration (remote mode only)
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Seed migration
	MigrateOnStartup   bool
	MigrateSchedule    string // cron expression; blank disables the job
	MigrateConcurrency int    // concurrent writes per collection

	// Session management configuration
	SessionKey    string
	SessionName   string
	SessionDomain string
	SessionMaxAge time.Duration

	// Photo storage: "local" or "s3"
	StorageType      string
	StorageLocalPath string
	StorageLocalURL  string
	StorageS3Region  string
	StorageS3Bucket  string
	StorageS3Prefix  string
	StoragePublicURL string // CDN or bucket URL that serves uploaded photos

	// Capture sessions
	CaptureSpoolDir      string
	CaptureIdleTimeout   time.Duration
	CaptureSweepSchedule string
	PhotoQuality         int

	PostTTL time.Duration

	GoogleUserInfoURL string

	// AdminUserIDs may trigger migration over HTTP. Blank lets any
	// signed-in user.
	AdminUserIDs []string

	// Per-call deadlines; zero keeps the built-in default.
	TimeoutPing    time.Duration
	TimeoutRead    time.Duration
	TimeoutWrite   time.Duration
	TimeoutMigrate time.Duration
	TimeoutStep    time.Duration
}
