// api/routes/router.go
package routes

import (
	"fmt"
	"net/http"
	"time"

	"sortmyscene/internal/auth"
	"sortmyscene/internal/catalog"
	"sortmyscene/internal/checkout"
	"sortmyscene/internal/notifications"
	"sortmyscene/internal/session"
	"sortmyscene/internal/shared/config"
	"sortmyscene/internal/shared/database"
	"sortmyscene/internal/shared/middleware"
	"sortmyscene/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config        *config.Config
	db            *database.DB
	notifications *notifications.Service

	sessions       *session.Manager // For dependency injection
	catalogService catalog.Service
}

// NewRouter creates a new router instance. db.PostgreSQL may be nil when the
// static catalog and the external auth provider are configured; notifSvc may
// be nil when the notification broker is disabled.
func NewRouter(cfg *config.Config, db *database.DB, notifSvc *notifications.Service) *Router {
	return &Router{
		config:        cfg,
		db:            db,
		notifications: notifSvc,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Auth wiring comes first: the route guard and every other group depend
	// on the session manager.
	provider := r.buildAuthProvider()
	r.sessions = session.NewManager(provider, r.config)

	apiBase := r.config.GetAPIBasePath()
	engine.Use(middleware.RouteGuard(r.sessions, middleware.GuardConfig{
		ExtraPublicPrefixes: []string{
			apiBase + "/auth",
			apiBase + "/session",
		},
		LoginPath: "/login",
	}))

	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// Page shells
	r.setupPageRoutes(engine)

	// API routes
	api := engine.Group(apiBase)
	{
		r.setupAuthRoutes(api, provider)

		r.setupSessionRoutes(api)

		// Catalog must precede checkout for dependency injection
		r.setupCatalogRoutes(api)

		r.setupCheckoutRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if r.db != nil {
			if err := r.db.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":    "unhealthy",
					"error":     err.Error(),
					"timestamp": time.Now(),
					"service":   "sortmyscene-backend",
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "sortmyscene-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupPageRoutes registers the server-rendered page shells. The client app
// hydrates these; the guard decides who gets to see the protected ones.
func (r *Router) setupPageRoutes(engine *gin.Engine) {
	engine.GET("/", pageShell("SortMyScene"))
	engine.GET("/login", pageShell("Sign In | SortMyScene"))
	engine.GET("/signup", pageShell("Sign Up | SortMyScene"))
	engine.GET("/forgot-password", pageShell("Reset Password | SortMyScene"))
	engine.GET("/events", pageShell("Events | SortMyScene"))
	engine.GET("/events/:id", pageShell("Event | SortMyScene"))
	engine.GET("/events/:id/tickets", pageShell("Tickets | SortMyScene"))
	engine.GET("/list-event", pageShell("List Your Event | SortMyScene"))
}

func pageShell(title string) gin.HandlerFunc {
	body := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>%s</title></head>
<body><div id="root"></div></body>
</html>
`, title)
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
	}
}

func (r *Router) buildAuthProvider() auth.Provider {
	if r.config.Auth.Provider == config.AuthProviderLocal {
		authRepo := auth.NewRepository(r.db.GetPostgreSQL())
		return auth.NewLocalProvider(authRepo, r.config)
	}
	return auth.NewExternalProvider(r.config.Auth.ProviderURL, r.config.Auth.AnonKey)
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup, provider auth.Provider) {
	authController := auth.NewController(provider, r.sessions)

	if r.notifications != nil {
		authController.SetNotifier(r.notifications)
	}

	auth.SetupAuthRoutes(rg, authController)
}

// setupSessionRoutes configures the session observation routes
func (r *Router) setupSessionRoutes(rg *gin.RouterGroup) {
	sessionController := session.NewController(r.sessions)
	session.SetupSessionRoutes(rg, sessionController)
}

// setupCatalogRoutes configures event and venue browsing routes
func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) {
	var provider catalog.Provider
	if r.config.Catalog.Backend == config.CatalogBackendDB {
		provider = catalog.NewDBProvider(r.db.GetPostgreSQL())
	} else {
		provider = catalog.NewStaticProvider()
	}

	catalogService := catalog.NewService(provider)

	// Inject the cache layer when Redis is around
	if r.db != nil && r.db.GetRedisClient() != nil {
		catalogService.SetCacheService(cache.NewService(r.db.GetRedisClient()), r.config.Catalog.CacheTTL)
	}

	// Store catalog service for dependency injection
	r.catalogService = catalogService

	catalogController := catalog.NewController(catalogService)
	catalog.SetupCatalogRoutes(rg, catalogController)
}

// setupCheckoutRoutes configures the ticket checkout flow routes
func (r *Router) setupCheckoutRoutes(rg *gin.RouterGroup) {
	var store checkout.Store
	if r.db != nil && r.db.GetRedisClient() != nil {
		store = checkout.NewRedisStore(cache.NewService(r.db.GetRedisClient()), r.config.Redis.CheckoutTTL)
	} else {
		store = checkout.NewMemoryStore(r.config.Redis.CheckoutTTL)
	}

	checkoutService := checkout.NewService(r.catalogService, store)

	if r.notifications != nil {
		checkoutService.SetNotifier(r.notifications)
	}

	checkoutController := checkout.NewController(checkoutService)
	checkout.SetupCheckoutRoutes(rg, checkoutController)
}
