package server

import (
	"errors"
	"net/http"

	"github.com/boring-ventures/ubigroup-sub000/internal/auth"
	"github.com/boring-ventures/ubigroup-sub000/internal/cache"
	"github.com/boring-ventures/ubigroup-sub000/internal/config"
	apierrors "github.com/boring-ventures/ubigroup-sub000/internal/errors"
	"github.com/boring-ventures/ubigroup-sub000/internal/listing"
	"github.com/boring-ventures/ubigroup-sub000/internal/logging"
	"github.com/boring-ventures/ubigroup-sub000/internal/middleware"
	"github.com/boring-ventures/ubigroup-sub000/internal/moderation"
	"github.com/boring-ventures/ubigroup-sub000/internal/monitoring"
	"github.com/boring-ventures/ubigroup-sub000/internal/project"
	"github.com/boring-ventures/ubigroup-sub000/internal/property"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// APIServer represents the main API server
type APIServer struct {
	config            *config.Config
	router            *gin.Engine
	db                *pgxpool.Pool
	authService       *auth.Service
	propertyService   *property.Service
	projectService    *project.Service
	listingService    *listing.Service
	moderationService *moderation.Service
	jwtAuthenticator  *middleware.JWTAuthenticator
}

// NewAPIServer creates a new API server instance. The cache may be nil,
// in which case listing snapshots always hit the database.
func NewAPIServer(cfg *config.Config, db *pgxpool.Pool, c *cache.Cache) *APIServer {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware in order
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(monitoring.MetricsMiddleware())
	router.Use(logging.RequestLogger())

	var listingCache listing.Cache
	var mutationCache moderation.InvalidatingCache
	if c != nil {
		listingCache = c
		mutationCache = c
	}

	srv := &APIServer{
		config:            cfg,
		router:            router,
		db:                db,
		authService:       auth.NewService(db, &cfg.JWT),
		propertyService:   property.NewService(db, mutationCache),
		projectService:    project.NewService(db, mutationCache),
		listingService:    listing.NewService(db, listingCache),
		moderationService: moderation.NewService(db, mutationCache, nil),
		jwtAuthenticator:  middleware.NewJWTAuthenticator(&cfg.JWT),
	}

	srv.setupRoutes()
	return srv
}

// Router returns the gin router
func (s *APIServer) Router() http.Handler {
	return s.router
}

// setupRoutes configures all API routes
func (s *APIServer) setupRoutes() {
	// Health check
	s.router.GET("/health", s.healthCheck)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		// Auth routes (public)
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", s.handleRegister)
			authGroup.POST("/login", s.handleLogin)
			authGroup.POST("/logout", s.handleLogout)
			authGroup.POST("/refresh", s.handleRefresh)
		}

		// Public marketplace routes
		v1.GET("/listings", s.handlePublicListings)

		// Dashboard (any authenticated user, scope depends on role)
		v1.GET("/dashboard/stats", s.jwtAuthenticator.JWTAuth(),
			middleware.RequireAgentOrSuperAdmin(), s.handleDashboardStats)

		// Property routes (protected - requires agent role)
		properties := v1.Group("/properties")
		properties.Use(s.jwtAuthenticator.JWTAuth())
		properties.Use(middleware.RequireAgent())
		{
			properties.POST("", s.handleCreateProperty)
			properties.GET("", s.handleListProperties)
			properties.GET("/:id", s.handleGetProperty)
			properties.PUT("/:id", s.handleUpdateProperty)
			properties.DELETE("/:id", s.handleDeleteProperty)
			properties.POST("/:id/resend", s.handleResendProperty)
		}

		// Project routes (protected - requires agent role)
		projects := v1.Group("/projects")
		projects.Use(s.jwtAuthenticator.JWTAuth())
		projects.Use(middleware.RequireAgent())
		{
			projects.POST("", s.handleCreateProject)
			projects.GET("", s.handleListProjects)
			projects.GET("/:id", s.handleGetProject)
			projects.PUT("/:id", s.handleUpdateProject)
			projects.DELETE("/:id", s.handleDeleteProject)
			projects.POST("/:id/resend", s.handleResendProject)
		}

		// Admin routes (protected - requires super-admin role)
		admin := v1.Group("/admin")
		admin.Use(s.jwtAuthenticator.JWTAuth())
		admin.Use(middleware.RequireSuperAdmin())
		{
			admin.GET("/listings", s.handleAdminListings)
			admin.GET("/stats", s.handleAdminStats)
			admin.POST("/properties/:id/approve", s.handleApproveProperty)
			admin.POST("/properties/:id/reject", s.handleRejectProperty)
			admin.DELETE("/properties/:id", s.handleAdminDeleteProperty)
			admin.POST("/projects/:id/approve", s.handleApproveProject)
			admin.POST("/projects/:id/reject", s.handleRejectProject)
			admin.DELETE("/projects/:id", s.handleAdminDeleteProject)
		}
	}
}

// Health check handler
func (s *APIServer) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "api",
	})
}

// handleRegister handles agent registration
func (s *APIServer) handleRegister(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	resp, err := s.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrEmailAlreadyExists) {
			respondError(c, apierrors.NewInvalidRequestError("Email already registered"))
		} else {
			respondError(c, apierrors.ErrInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// handleLogin handles user login
func (s *APIServer) handleLogin(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	resp, err := s.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(c, apierrors.ErrInvalidCredentialsError)
		} else {
			respondError(c, apierrors.ErrInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// handleLogout handles user logout. Tokens are stateless, so logout is
// client-side removal.
func (s *APIServer) handleLogout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// handleRefresh handles token refresh
func (s *APIServer) handleRefresh(c *gin.Context) {
	var req auth.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	tokens, err := s.authService.RefreshTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			respondError(c, apierrors.ErrInvalidCredentialsError)
		case errors.Is(err, auth.ErrTokenExpired):
			respondError(c, apierrors.ErrTokenExpiredError)
		case errors.Is(err, auth.ErrUserNotFound):
			respondError(c, apierrors.ErrUserNotFoundError)
		default:
			respondError(c, apierrors.ErrInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// respondError sends a standardized error response
func respondError(c *gin.Context, err *apierrors.APIError) {
	requestID, _ := c.Get("request_id")
	reqIDStr, _ := requestID.(string)

	c.JSON(err.HTTPStatus, apierrors.ErrorResponse{
		Error:     *err,
		RequestID: reqIDStr,
	})
}

// mapModerationError translates moderation sentinels into the API envelope.
func mapModerationError(err error) *apierrors.APIError {
	switch {
	case errors.Is(err, moderation.ErrListingNotFound):
		return apierrors.ErrListingNotFoundError
	case errors.Is(err, moderation.ErrNotAdmin):
		return apierrors.ErrForbiddenError
	case errors.Is(err, moderation.ErrNotOwner):
		return apierrors.ErrListingNotOwnedError
	case errors.Is(err, moderation.ErrInvalidTransition):
		return apierrors.NewInvalidStateError(err.Error())
	case errors.Is(err, moderation.ErrUnknownAction):
		return apierrors.NewInvalidRequestError(err.Error())
	default:
		return apierrors.ErrStoreFailureError
	}
}
