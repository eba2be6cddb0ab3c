// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"

	authgooglefeature "github.com/dalemusser/photoshare/internal/app/features/authgoogle"
	capturefeature "github.com/dalemusser/photoshare/internal/app/features/capture"
	eventsfeature "github.com/dalemusser/photoshare/internal/app/features/events"
	groupsfeature "github.com/dalemusser/photoshare/internal/app/features/groups"
	healthfeature "github.com/dalemusser/photoshare/internal/app/features/health"
	loginfeature "github.com/dalemusser/photoshare/internal/app/features/login"
	logoutfeature "github.com/dalemusser/photoshare/internal/app/features/logout"
	migratefeature "github.com/dalemusser/photoshare/internal/app/features/migrate"
	postsfeature "github.com/dalemusser/photoshare/internal/app/features/posts"
	relationshipsfeature "github.com/dalemusser/photoshare/internal/app/features/relationships"
	userinfofeature "github.com/dalemusser/photoshare/internal/app/features/userinfo"
	usersfeature "github.com/dalemusser/photoshare/internal/app/features/users"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root router. WAFFLE calls it after config,
// the store, schema setup, and Startup have completed.
//
// Every response is JSON. The session user, when there is one, is loaded
// into the request context for all routes; feature routers that need a
// signed-in user add RequireSignedIn themselves.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	authSvc := &auth.Service{
		Accounts:          deps.Accounts,
		Users:             deps.Data,
		GoogleUserInfoURL: appCfg.GoogleUserInfoURL,
		Log:               logger.Named("auth"),
	}
	limiter := ratelimit.NewSignIn()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(sessionMgr.LoadSessionUser)

	var ping healthfeature.PingFunc
	if deps.MongoClient != nil {
		ping = healthfeature.MongoPing(deps.MongoClient)
	}
	healthHandler := healthfeature.NewHandler(ping, string(deps.Mode), logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Photos uploaded to local storage are served from the same process.
	if appCfg.StorageType == "local" && strings.HasPrefix(appCfg.StorageLocalURL, "/") {
		prefix := strings.TrimRight(appCfg.StorageLocalURL, "/")
		r.Handle(prefix+"/*", fileserver.Handler(prefix, appCfg.StorageLocalPath))
	}

	// Authentication
	r.Route("/auth", func(ar chi.Router) {
		loginfeature.MountRoutes(ar, loginfeature.NewHandler(authSvc, sessionMgr, limiter, deps.Logins, logger))
		authgooglefeature.MountRoutes(ar, authgooglefeature.NewHandler(authSvc, sessionMgr, limiter, deps.Logins, logger))
		logoutfeature.MountRoutes(ar, logoutfeature.NewHandler(sessionMgr, logger))
		userinfofeature.MountRoutes(ar, userinfofeature.NewHandler(deps.Data, deps.Logins, logger))
	})

	// Feed and social graph
	postsHandler := postsfeature.NewHandler(deps.Data, logger)
	r.Mount("/posts", postsfeature.Routes(postsHandler, sessionMgr))

	groupsHandler := groupsfeature.NewHandler(deps.Data, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr))

	eventsHandler := eventsfeature.NewHandler(deps.Data, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler, sessionMgr))

	usersHandler := usersfeature.NewHandler(deps.Data, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

	relHandler := relationshipsfeature.NewHandler(deps.Data, logger)
	r.Mount("/relationships", relationshipsfeature.Routes(relHandler, sessionMgr))

	// Capture -> preview -> publish
	r.Mount("/capture", capturefeature.Routes(deps.Capture, sessionMgr))

	// Operations
	migrateHandler := migratefeature.NewHandler(deps.Data, appCfg.AdminUserIDs, logger)
	r.Mount("/admin", migratefeature.Routes(migrateHandler, sessionMgr))

	return r, nil
}
