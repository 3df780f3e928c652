package httpx

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"github.com/MikeMC777/cod-delivery/internal/apperr"
)

const ridKey = "rid"

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(ridKey, rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("[http] rid=%s %s %s status=%d dur=%s",
			RID(c), c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// RID returns the request id set by RequestID, or "-".
func RID(c *gin.Context) string {
	if v, ok := c.Get(ridKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "-"
}

func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// NewEngine returns a gin engine with the middleware every service shares.
// JSON bodies with unknown fields are rejected by ShouldBindJSON.
func NewEngine(origins []string) *gin.Engine {
	binding.EnableDecoderDisallowUnknownFields = true

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger(), CORS(origins))
	r.NoRoute(func(c *gin.Context) {
		WriteError(c, apperr.NotFound(apperr.CodeRouteNotFound, apperr.Details{"path": c.Request.URL.Path}))
	})
	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	return r
}
