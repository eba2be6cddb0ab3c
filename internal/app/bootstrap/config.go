// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/photoshare/internal/app/store/dataservice"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/app/system/scheduler"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// appConfigKeys are loaded from config files (mongo_uri), environment
// variables (PHOTOSHARE_MONGO_URI) and flags (--mongo_uri).
var appConfigKeys = []config.AppKey{
	{Name: "data_mode", Default: "remote", Desc: "Data service: 'remote' (MongoDB) or 'local' (in-memory seed data)"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "photoshare", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},

	{Name: "migrate_on_startup", Default: true, Desc: "Copy missing seed records into MongoDB at startup"},
	{Name: "migrate_schedule", Default: "@every 1h", Desc: "Cron schedule for re-running seed migration (blank disables)"},
	{Name: "migrate_concurrency", Default: 4, Desc: "Concurrent writes per collection during migration"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "photoshare-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime"},

	{Name: "storage_type", Default: "local", Desc: "Photo storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads/photos", Desc: "Local directory for uploaded photos"},
	{Name: "storage_local_url", Default: "/media", Desc: "URL prefix that serves local photos"},
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "", Desc: "S3 key prefix"},
	{Name: "storage_public_url", Default: "", Desc: "Public base URL for uploaded photos (CDN or bucket endpoint)"},

	{Name: "capture_spool_dir", Default: "", Desc: "Directory for captured frames (blank uses the OS temp dir)"},
	{Name: "capture_idle_timeout", Default: "15m", Desc: "Close capture sessions unused for this long"},
	{Name: "capture_sweep_schedule", Default: "@every 1m", Desc: "Cron schedule for closing idle capture sessions"},
	{Name: "photo_quality", Default: 85, Desc: "JPEG quality for edited photos (1-100)"},

	{Name: "post_ttl", Default: "24h", Desc: "How long a published post stays in the feed"},
	{Name: "google_userinfo_url", Default: auth.DefaultGoogleUserInfoURL, Desc: "Google userinfo endpoint used for token sign-in"},
	{Name: "admin_user_ids", Default: "", Desc: "Comma-separated user ids allowed to run migration over HTTP"},

	{Name: "timeout_ping", Default: "", Desc: "Health check deadline"},
	{Name: "timeout_read", Default: "", Desc: "Store read deadline"},
	{Name: "timeout_write", Default: "", Desc: "Store write deadline"},
	{Name: "timeout_migrate", Default: "", Desc: "Whole migration run deadline"},
	{Name: "timeout_step", Default: "", Desc: "Capture pipeline step deadline"},
}

// LoadConfig loads WAFFLE core config and PhotoShare's app config.
// Precedence is flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PHOTOSHARE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		DataMode: appValues.String("data_mode"),

		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		MigrateOnStartup:   appValues.Bool("migrate_on_startup"),
		MigrateSchedule:    strings.TrimSpace(appValues.String("migrate_schedule")),
		MigrateConcurrency: appValues.Int("migrate_concurrency"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),
		StorageS3Region:  appValues.String("storage_s3_region"),
		StorageS3Bucket:  appValues.String("storage_s3_bucket"),
		StorageS3Prefix:  appValues.String("storage_s3_prefix"),
		StoragePublicURL: appValues.String("storage_public_url"),

		CaptureSpoolDir:      appValues.String("capture_spool_dir"),
		CaptureIdleTimeout:   appValues.Duration("capture_idle_timeout", 15*time.Minute),
		CaptureSweepSchedule: strings.TrimSpace(appValues.String("capture_sweep_schedule")),
		PhotoQuality:         appValues.Int("photo_quality"),

		PostTTL:           appValues.Duration("post_ttl", models.DefaultPostTTL),
		GoogleUserInfoURL: appValues.String("google_userinfo_url"),
		AdminUserIDs:      splitList(appValues.String("admin_user_ids")),

		TimeoutPing:    appValues.Duration("timeout_ping", 0),
		TimeoutRead:    appValues.Duration("timeout_read", 0),
		TimeoutWrite:   appValues.Duration("timeout_write", 0),
		TimeoutMigrate: appValues.Duration("timeout_migrate", 0),
		TimeoutStep:    appValues.Duration("timeout_step", 0),
	}

	return coreCfg, appCfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateConfig rejects configuration that would fail later at runtime:
// a malformed Mongo URI, incomplete storage settings, or a bad schedule.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	mode, err := dataservice.ParseMode(appCfg.DataMode)
	if err != nil {
		return err
	}

	var errs []error
	if mode == dataservice.ModeRemote {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			errs = append(errs, fmt.Errorf("invalid MongoDB URI: %w", err))
		}
		if strings.TrimSpace(appCfg.MongoDatabase) == "" {
			errs = append(errs, errors.New("mongo_database is required in remote mode"))
		}
	}

	switch appCfg.StorageType {
	case "local":
		if appCfg.StorageLocalPath == "" {
			errs = append(errs, errors.New("storage_local_path is required for local storage"))
		}
	case "s3":
		if appCfg.StorageS3Bucket == "" || appCfg.StorageS3Region == "" {
			errs = append(errs, errors.New("s3 storage requires storage_s3_bucket and storage_s3_region"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage_type must be 'local' or 's3', got %q", appCfg.StorageType))
	}

	if appCfg.MigrateSchedule != "" {
		if err := scheduler.ValidateSchedule(appCfg.MigrateSchedule); err != nil {
			errs = append(errs, fmt.Errorf("migrate_schedule: %w", err))
		}
	}
	if err := scheduler.ValidateSchedule(appCfg.CaptureSweepSchedule); err != nil {
		errs = append(errs, fmt.Errorf("capture_sweep_schedule: %w", err))
	}

	if strings.TrimSpace(appCfg.SessionName) == "" {
		errs = append(errs, errors.New("session_name is required"))
	}
	if appCfg.PostTTL <= 0 {
		errs = append(errs, errors.New("post_ttl must be positive"))
	}
	if appCfg.CaptureIdleTimeout <= 0 {
		errs = append(errs, errors.New("capture_idle_timeout must be positive"))
	}
	if appCfg.PhotoQuality < 1 || appCfg.PhotoQuality > 100 {
		errs = append(errs, fmt.Errorf("photo_quality must be between 1 and 100, got %d", appCfg.PhotoQuality))
	}

	if coreCfg != nil && coreCfg.Env == "prod" && strings.HasPrefix(appCfg.SessionKey, "dev-only") {
		errs = append(errs, errors.New("session_key must be set in production"))
	}
	return multierr.Combine(errs...)
}
