package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/podcast-intel/app/metrics"
)

// NewServer creates the dashboard router. metricsHandler may be nil.
func NewServer(handler *Handler, recorder metrics.Recorder, metricsHandler http.Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(requestLogger())
	r.Use(gin.Recovery())
	if recorder != nil {
		r.Use(requestMetrics(recorder))
	}

	r.GET("/", handler.GetOverview)
	r.GET("/dashboard", handler.GetOverview)
	r.GET("/right", handler.GetRightWing)
	r.GET("/campaign", handler.GetCampaign)

	r.GET("/api/stats", handler.APIGetStats)
	r.GET("/api/topics", handler.APIGetTopics)

	r.GET("/digests.xml", handler.GetDigestFeed)
	r.GET("/health", handler.GetHealth)
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	// Unknown paths get a bare 404
	r.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}

		slog.Log(c.Request.Context(), level, "HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"client_ip", c.ClientIP())
	}
}

func requestMetrics(recorder metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
