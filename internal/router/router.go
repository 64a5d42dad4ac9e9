package router

import (
	"github.com/anonto42/circle/backend/internal/handlers"
	"github.com/anonto42/circle/backend/internal/middleware"
	"github.com/anonto42/circle/backend/internal/repositories"
	"github.com/anonto42/circle/backend/internal/services"
	"github.com/anonto42/circle/backend/internal/token"
	"github.com/anonto42/circle/backend/pkg/config"
	"github.com/anonto42/circle/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps are the process-wide dependencies the routes are built from.
// Objects may be nil, in which case the image routes are not registered.
type Deps struct {
	Config  *config.Config
	Log     *logrus.Logger
	DB      *gorm.DB
	Tokens  *token.Service
	Objects services.ObjectStore
}

// New builds the Echo instance with global middleware and every route
func New(deps Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(deps.Log)

	config.SetupMiddleware(e, deps.Config, deps.Log)

	if err := SetupRoutes(e, deps); err != nil {
		return nil, err
	}
	return e, nil
}

// SetupRoutes wires repositories, services and handlers and registers their routes
func SetupRoutes(e *echo.Echo, deps Deps) error {
	log := deps.Log
	store := repositories.NewStore(deps.DB)

	authService, err := services.NewAuthService(store, deps.Tokens, deps.Config.BcryptCost, log)
	if err != nil {
		return err
	}
	contentService := services.NewContentService(store, log)
	graphService := services.NewGraphService(store, log)
	notificationService := services.NewNotificationService(store)

	requireAuth := middleware.JWTAuthMiddleware(deps.Tokens)
	optionalAuth := middleware.OptionalJWTAuthMiddleware(deps.Tokens)

	// Health check - always accessible
	e.GET("/health", handlers.NewHealthHandler(store, log).HealthCheck)

	api := e.Group("/api")

	authHandler := handlers.NewAuthHandler(authService)
	authHandler.RegisterAuthRoutes(api.Group("/auth"))

	postHandler := handlers.NewPostHandler(contentService)
	postHandler.RegisterPostRoutes(api, requireAuth, optionalAuth)

	feedHandler := handlers.NewFeedHandler(contentService)
	feedHandler.RegisterFeedRoutes(api, requireAuth)

	userHandler := handlers.NewUserHandler(graphService, authService)
	userHandler.RegisterProfileRoutes(api, requireAuth, optionalAuth)

	followHandler := handlers.NewFollowHandler(graphService)
	followHandler.RegisterFollowRoutes(api, requireAuth)

	notificationHandler := handlers.NewNotificationHandler(notificationService)
	notificationHandler.RegisterNotificationRoutes(api, requireAuth)

	if deps.Objects != nil {
		imageService := services.NewImageService(store, deps.Objects, deps.Config.ImageMaxBytes, deps.Config.ImageURLTTL, log)
		imageHandler := handlers.NewImageHandler(imageService, deps.Config.ImageMaxBytes)
		imageHandler.RegisterImageRoutes(api, requireAuth)
	} else {
		log.Info("image storage not configured, image routes disabled")
	}

	log.WithField("routes", len(e.Routes())).Info("routes configured")
	return nil
}
