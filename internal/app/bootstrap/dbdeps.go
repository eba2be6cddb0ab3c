// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	capturefeature "github.com/dalemusser/photoshare/internal/app/features/capture"
	"github.com/dalemusser/photoshare/internal/app/store/dataservice"
	loginstore "github.com/dalemusser/photoshare/internal/app/store/logins"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/app/system/photostore"
	"github.com/dalemusser/photoshare/internal/app/system/scheduler"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the backends and long-lived components shared by the
// lifecycle hooks. Mongo fields are nil in local mode.
type DBDeps struct {
	Mode dataservice.Mode

	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Data     dataservice.Service
	Accounts auth.AccountStore
	Photos   photostore.Store
	Logins   loginstore.History

	// Scheduler runs background jobs; Capture owns the open camera
	// sessions. Both are stopped in Shutdown.
	Scheduler *scheduler.Scheduler
	Capture   *capturefeature.Handler
}
