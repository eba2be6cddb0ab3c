// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	capturefeature "github.com/dalemusser/photoshare/internal/app/features/capture"
	accountstore "github.com/dalemusser/photoshare/internal/app/store/accounts"
	"github.com/dalemusser/photoshare/internal/app/store/dataservice"
	"github.com/dalemusser/photoshare/internal/app/store/localstore"
	loginstore "github.com/dalemusser/photoshare/internal/app/store/logins"
	"github.com/dalemusser/photoshare/internal/app/store/remotestore"
	"github.com/dalemusser/photoshare/internal/app/store/seed"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/app/system/indexes"
	"github.com/dalemusser/photoshare/internal/app/system/photoedit"
	"github.com/dalemusser/photoshare/internal/app/system/photostore"
	"github.com/dalemusser/photoshare/internal/app/system/scheduler"
	"github.com/dalemusser/photoshare/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB builds the data service for the configured mode, the account
// store, and the photo store. In remote mode it connects to MongoDB and
// verifies the connection before returning.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	timeouts.Configure(timeouts.Config{
		Ping:    appCfg.TimeoutPing,
		Read:    appCfg.TimeoutRead,
		Write:   appCfg.TimeoutWrite,
		Migrate: appCfg.TimeoutMigrate,
		Step:    appCfg.TimeoutStep,
	})
	t := timeouts.Current()
	logger.Info("timeouts configured",
		zap.Duration("ping", t.Ping),
		zap.Duration("read", t.Read),
		zap.Duration("write", t.Write),
		zap.Duration("migrate", t.Migrate),
		zap.Duration("step", t.Step))

	mode, err := dataservice.ParseMode(appCfg.DataMode)
	if err != nil {
		return DBDeps{}, err
	}
	deps := DBDeps{Mode: mode}

	switch mode {
	case dataservice.ModeLocal:
		logger.Info("using in-memory data service with seed data")
		deps.Data = localstore.New(seed.Default())
		deps.Accounts = auth.NewMemoryAccounts()
		deps.Logins = loginstore.NewMemory(50)
	default:
		client, err := connectMongo(ctx, appCfg, logger)
		if err != nil {
			return DBDeps{}, err
		}
		deps.MongoClient = client
		deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
		deps.Data = remotestore.New(deps.MongoDatabase, logger.Named("remotestore"), remotestore.Options{
			MigrateConcurrency: appCfg.MigrateConcurrency,
		})
		deps.Accounts = accountstore.New(deps.MongoDatabase)
		deps.Logins = loginstore.New(deps.MongoDatabase)
	}

	photos, err := buildPhotoStore(ctx, appCfg)
	if err != nil {
		if deps.MongoClient != nil {
			_ = deps.MongoClient.Disconnect(ctx)
		}
		return DBDeps{}, err
	}
	deps.Photos = photos

	deps.Scheduler = scheduler.New(logger.Named("scheduler"))
	deps.Capture = capturefeature.NewHandler(deps.Data, deps.Photos,
		photoedit.Editor{Quality: appCfg.PhotoQuality},
		appCfg.CaptureSpoolDir, appCfg.PostTTL, logger.Named("capture"))
	return deps, nil
}

func connectMongo(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(appCfg.MongoURI).SetAppName("photoshare")
	if appCfg.MongoMaxPoolSize > 0 {
		opts.SetMaxPoolSize(appCfg.MongoMaxPoolSize)
	}
	if appCfg.MongoMinPoolSize > 0 {
		opts.SetMinPoolSize(appCfg.MongoMinPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	pctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", appCfg.MongoMaxPoolSize))
	return client, nil
}

func buildPhotoStore(ctx context.Context, appCfg AppConfig) (photostore.Store, error) {
	if appCfg.StorageType == "s3" {
		s, err := photostore.NewS3(ctx, appCfg.StorageS3Region, appCfg.StorageS3Bucket, appCfg.StorageS3Prefix, appCfg.StoragePublicURL)
		if err != nil {
			return nil, fmt.Errorf("s3 photo store: %w", err)
		}
		return s, nil
	}
	base := appCfg.StorageLocalURL
	if appCfg.StoragePublicURL != "" {
		base = appCfg.StoragePublicURL
	}
	return &photostore.Local{Root: appCfg.StorageLocalPath, BaseURL: base}, nil
}

// EnsureSchema creates the MongoDB indexes. Local mode has nothing to do.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return nil
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	logger.Info("indexes ensured")
	return nil
}
