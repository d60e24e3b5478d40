package handlers

import (
	"net/http"

	"accessibledn/internal/logger"
	"accessibledn/internal/ratelimit"
	"accessibledn/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services, rate limiting, and logging.
type Handler struct {
	services    *service.Service
	limiter     *ratelimit.Limiter
	authEnabled bool
	log         *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, limiter *ratelimit.Limiter, authEnabled bool, log *logger.Logger) *Handler {
	return &Handler{
		services:    services,
		limiter:     limiter,
		authEnabled: authEnabled,
		log:         log,
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestID)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	h.registerUserbaseRoutes(router)

	return router
}

func (h *Handler) registerUserbaseRoutes(r *gin.Engine) {
	users := r.Group("/api/userbase/v1/users", h.requireAuthEnabled)
	{
		users.POST("", h.rateLimit, h.register)
		users.POST("/login", h.rateLimit, h.login)
		users.GET("/session", h.requireSession, h.session)
		users.DELETE("", h.rateLimit, h.requireSession, h.deleteUser)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a
// 400 JSON on failure. Returns false if the request was already handled.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("userbase_bad_request_body", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return false
	}
	return true
}
