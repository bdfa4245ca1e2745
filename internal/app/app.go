package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/studorg/portal-api/internal/config"
	"github.com/studorg/portal-api/internal/domain"
	"github.com/studorg/portal-api/internal/handler"
	"github.com/studorg/portal-api/internal/repository"
	"github.com/studorg/portal-api/internal/service"
	"github.com/studorg/portal-api/internal/utils"
	"github.com/studorg/portal-api/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
		cfg.JWT.OAuthStateExpiry.Duration,
	)

	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)
	logger := infra.Logger()
	imageStore := infra.ImageStore()

	authService := service.NewAuthService(repos.User, jwtManager, imageStore, logger, cfg.Security.BCryptCost)
	eventService := service.NewEventService(repos.Event, imageStore, logger)
	announcementService := service.NewAnnouncementService(repos.Announcement, imageStore, logger)
	galleryService := service.NewGalleryService(repos.Gallery, imageStore, logger)
	coreTeamService := service.NewCoreTeamService(repos.CoreTeam, imageStore, logger)
	categoryService := service.NewCategoryService(repos.Category, logger)

	secureCookies := cfg.Env == "production"

	handlers := routeHandlers{
		auth: handler.NewAuthHandler(authService, logger, secureCookies),
		oauth: handler.NewOAuthHandler(
			authService,
			jwtManager,
			logger,
			cfg.Google.ClientID,
			cfg.Google.ClientSecret,
			cfg.Google.RedirectURL,
			cfg.App.FrontendBaseURL,
			secureCookies,
		),
		events:        handler.NewEventHandler(eventService, logger),
		announcements: handler.NewAnnouncementHandler(announcementService, logger),
		gallery:       handler.NewGalleryHandler(galleryService, logger),
		coreTeam:      handler.NewCoreTeamHandler(coreTeamService, logger),
		categories:    handler.NewCategoryHandler(categoryService, logger),
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("portal-api"))
	router.Use(handler.LoggerMiddleware(logger))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, handlers, authService, rateLimiter, logger, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

type routeHandlers struct {
	auth          *handler.AuthHandler
	oauth         *handler.OAuthHandler
	events        *handler.EventHandler
	announcements *handler.AnnouncementHandler
	gallery       *handler.GalleryHandler
	coreTeam      *handler.CoreTeamHandler
	categories    *handler.CategoryHandler
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	h routeHandlers,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	logger *zap.Logger,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	requireAuth := handler.RequireAuth(authService)
	optionalAuth := handler.OptionalAuth(authService)
	staffOnly := handler.RequireRoles(domain.RoleAdmin, domain.RoleCore)
	adminOnly := handler.RequireRoles(domain.RoleAdmin)
	loginLimiter := handler.RateLimitMiddleware(
		rateLimiter,
		logger,
		cfg.Security.RateLimitRequests,
		cfg.Security.RateLimitWindow.Duration,
		handler.IPBasedKey,
	)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", loginLimiter, h.auth.Register)
			auth.POST("/login", loginLimiter, h.auth.Login)
			auth.POST("/refresh", h.auth.Refresh)
			auth.POST("/logout", h.auth.Logout)
			auth.GET("/status", optionalAuth, h.auth.Status)
			auth.GET("/me", requireAuth, h.auth.Me)
			auth.PUT("/profile", requireAuth, h.auth.UpdateProfile)
			auth.POST("/change-password", requireAuth, h.auth.ChangePassword)
			auth.POST("/link-google", requireAuth, h.auth.LinkGoogle)
			auth.DELETE("/unlink-google", requireAuth, h.auth.UnlinkGoogle)

			auth.GET("/google", optionalAuth, h.oauth.Login)
			auth.GET("/google/redirect", h.oauth.Callback)

			auth.GET("/profile/:id", h.auth.PublicProfile)
		}

		events := api.Group("/events")
		{
			events.GET("", optionalAuth, h.events.List)
			events.GET("/:id", optionalAuth, h.events.Get)
			events.POST("", requireAuth, staffOnly, h.events.Create)
			events.PUT("/:id", requireAuth, staffOnly, h.events.Update)
			events.DELETE("/:id", requireAuth, staffOnly, h.events.Delete)
		}

		announcements := api.Group("/announcements")
		{
			announcements.GET("", optionalAuth, h.announcements.List)
			announcements.GET("/:id", optionalAuth, h.announcements.Get)
			announcements.POST("", requireAuth, staffOnly, h.announcements.Create)
			announcements.PUT("/:id", requireAuth, staffOnly, h.announcements.Update)
			announcements.DELETE("/:id", requireAuth, staffOnly, h.announcements.Delete)
		}

		gallery := api.Group("/gallery")
		{
			gallery.GET("", h.gallery.List)
			gallery.GET("/:id", h.gallery.Get)
			gallery.POST("", requireAuth, staffOnly, h.gallery.Create)
			gallery.PUT("/:id", requireAuth, staffOnly, h.gallery.Update)
			gallery.DELETE("/:id", requireAuth, staffOnly, h.gallery.Delete)
		}

		coreTeam := api.Group("/core-team")
		{
			coreTeam.GET("", optionalAuth, h.coreTeam.List)
			coreTeam.POST("", requireAuth, adminOnly, h.coreTeam.Create)
			coreTeam.PUT("/:id", requireAuth, adminOnly, h.coreTeam.Update)
			coreTeam.DELETE("/:id", requireAuth, adminOnly, h.coreTeam.Delete)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", h.categories.List)
			categories.POST("", requireAuth, adminOnly, h.categories.Create)
			categories.DELETE("/:id", requireAuth, adminOnly, h.categories.Delete)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
