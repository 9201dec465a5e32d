package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bricks-cloud/tokencounter/internal/telemetry"
	"github.com/bricks-cloud/tokencounter/internal/util"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func getMiddleware(log *zap.Logger, prod bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := util.NewUuid()
		c.Set(correlationId, cid)
		c.Header("X-Correlation-Id", cid)
		start := time.Now()

		c.Next()

		dur := time.Since(start)
		latency := int(dur.Milliseconds())
		status := c.Writer.Status()

		telemetry.Timing("tokencounter.web.get_middleware.latency", dur, nil, 1)
		telemetry.Incr("tokencounter.web.get_middleware.responses", []string{
			"status:" + strconv.Itoa(status),
		}, 1)

		if prod {
			log.Info("response",
				zap.String(correlationId, cid),
				zap.String(encodingKey, c.GetString(encodingKey)),
				zap.Int("code", status),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("latencyInMs", latency),
			)
			return
		}

		log.Sugar().Infof("%s | %d | %s | %s | %s | %dms", cid, status, c.Request.Method, c.Request.URL.Path, c.GetString(encodingKey), latency)
	}
}

func getRecoveryMiddleware(log *zap.Logger, prod bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				telemetry.Incr("tokencounter.web.get_recovery_middleware.panics", nil, 1)
				err := fmt.Errorf("%v", r)
				logError(log, "recovered from panic", prod, c.GetString(correlationId), err)
				JSON(c, http.StatusInternalServerError, err.Error())
				c.Abort()
			}
		}()

		c.Next()
	}
}

// getCorsMiddleware answers preflight requests itself and adds the allow
// origin header to every response for a permitted origin. A "*" entry
// permits every origin.
func getCorsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowAll := false
	allowed := map[string]struct{}{}
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if len(origin) != 0 {
			if allowAll {
				c.Header("Access-Control-Allow-Origin", "*")
			} else if _, ok := allowed[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			if requested := c.GetHeader("Access-Control-Request-Headers"); len(requested) != 0 {
				c.Header("Access-Control-Allow-Headers", requested)
			} else {
				c.Header("Access-Control-Allow-Headers", "Content-Type")
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func getOtelMiddleware() gin.HandlerFunc {
	spanName := func(r *http.Request) string {
		return "HTTP " + r.Method + " " + r.URL.Path
	}

	return otelgin.Middleware(
		"tokencounter",
		otelgin.WithSpanNameFormatter(spanName),
		otelgin.WithPropagators(otel.GetTextMapPropagator()),
		otelgin.WithTracerProvider(otel.GetTracerProvider()),
	)
}
