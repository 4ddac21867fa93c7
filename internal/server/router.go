// Package server exposes the dashboard HTTP API.
package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/applications"
	"github.com/spigell/jobhunter/internal/matching"
	"github.com/spigell/jobhunter/internal/priority"
	"github.com/spigell/jobhunter/internal/profile"
	"github.com/spigell/jobhunter/internal/tracker"
)

type Deps struct {
	Tracker  *tracker.Tracker
	Store    *applications.Store
	Matcher  *matching.Matcher
	Profile  *profile.Profile
	Scorer   *priority.Scorer
	JobsFile string
	Logger   *zap.Logger
	Now      func() time.Time
}

type handler struct {
	Deps
}

func NewRouter(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Scorer == nil {
		deps.Scorer = priority.Default()
	}
	if deps.Matcher == nil {
		deps.Matcher = matching.New(nil)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	h := &handler{Deps: deps}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(deps.Logger))

	r.GET("/healthz", h.health)

	api := r.Group("/api")
	{
		api.GET("/dashboard", h.dashboard)
		api.GET("/applications", h.applications)
		api.GET("/application/*folder", h.application)
		api.GET("/download/:type/*folder", h.download)
		api.GET("/jobs", h.jobs)
		api.GET("/jobs/prioritized", h.prioritized)
		api.POST("/match", h.match)
		api.POST("/update_status", h.updateStatus)
		api.POST("/mark_applied", h.markApplied)
	}

	return r
}

// requestLogger logs one line per request with the zap logger.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= 500 {
			logger.Error("request", fields...)
			return
		}
		logger.Debug("request", fields...)
	}
}
