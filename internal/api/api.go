package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khrees2412/mockprep/internal/app"
	"github.com/khrees2412/mockprep/internal/service"
	"github.com/khrees2412/mockprep/pkg/models"
)

const sessionKey = "session"

// Handler serves the dashboard JSON API over the services
type Handler struct {
	Services *service.Services
	Logger   *zap.Logger
}

// NewRouter builds the gin engine with every /api route registered
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/auth/signup", h.SignUp)
		apiGroup.POST("/auth/login", h.Login)
	}

	authed := apiGroup.Group("", h.requireSession)
	{
		authed.POST("/auth/logout", h.Logout)

		authed.GET("/profile", h.GetProfile)
		authed.PUT("/profile", h.UpdateProfile)
		authed.PUT("/profile/password", h.ChangePassword)
		authed.PUT("/profile/resume-text", h.SaveResumeText)

		authed.GET("/settings", h.GetSettings)
		authed.PATCH("/settings", h.UpdateSettings)

		authed.GET("/resume", h.GetResume)
		authed.POST("/resume", h.UploadResume)
		authed.DELETE("/resume", h.DeleteResume)

		authed.GET("/activity", h.GetActivity)

		authed.GET("/interviews", h.ListInterviews)
		authed.POST("/interviews", h.CreateInterview)
		authed.GET("/interviews/:id/questions", h.GetQuestions)

		authed.GET("/overview", h.GetOverview)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "API route not found"})
	})
	return r
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.Logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// requireSession resolves the bearer token and stores the session on the context
func (h *Handler) requireSession(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	session, err := h.Services.Account.Resolve(c.Request.Context(), strings.TrimSpace(token))
	if err != nil {
		h.fail(c, err)
		c.Abort()
		return
	}
	c.Set(sessionKey, session)
	c.Next()
}

func currentSession(c *gin.Context) *models.Session {
	v, _ := c.Get(sessionKey)
	s, _ := v.(*models.Session)
	return s
}

// fail writes err with the status its class maps to
func (h *Handler) fail(c *gin.Context, err error) {
	var ve *app.ValidationError
	var re *app.RemoteError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": ve.Fields})
	case errors.Is(err, app.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, app.ErrIncorrectPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
	case errors.Is(err, app.ErrNoResume), errors.Is(err, app.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, app.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &re):
		h.Logger.Warn("remote failure", zap.String("op", re.Op), zap.Error(re.Err))
		c.JSON(http.StatusBadGateway, gin.H{"error": re.Error()})
	default:
		h.Logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
