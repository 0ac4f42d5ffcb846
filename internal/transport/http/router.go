package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Options configures the HTTP router builder.
type Options struct {
	// APIEndpoint and AuthClientID are handed to browsers via /config.
	APIEndpoint  string
	AuthClientID string
	// StaticRoot is the directory holding the built single-page app.
	StaticRoot string
	LogLevel   string
	Logger     *slog.Logger
}

// Router bundles the gin engine with the route groups callers extend.
type Router struct {
	Engine *gin.Engine
}

// Build constructs a gin engine pre-configured with recovery, logging, CORS
// and static SPA serving, plus the /config and /healthz endpoints.
func Build(opts Options) (*Router, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if opts.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestIDMiddleware())
	engine.Use(loggingMiddleware(logger))

	engine.SetTrustedProxies([]string{"0.0.0.0"})

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// Runtime configuration for browsers: fetched once at app startup, before
	// sign-in is configured.
	engine.GET("/config", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"API_ENDPOINT":   opts.APIEndpoint,
			"AUTH_CLIENT_ID": opts.AuthClientID,
		})
	})

	staticRoot := opts.StaticRoot
	if staticRoot == "" {
		staticRoot = "./dist"
	}
	engine.Use(static.Serve("/", static.LocalFile(staticRoot, true)))

	// Unknown paths fall back to the SPA index so client-side routes survive
	// a full page reload.
	engine.NoRoute(func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.File(staticRoot + "/index.html")
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return &Router{Engine: engine}, nil
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-Id", id)
		c.Set("requestId", id)
		c.Next()
	}
}

func loggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"requestId", c.GetString("requestId"),
		)
	}
}
