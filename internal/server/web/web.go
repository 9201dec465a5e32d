package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bricks-cloud/tokencounter/internal/config"
	"github.com/bricks-cloud/tokencounter/internal/telemetry"
	"github.com/bricks-cloud/tokencounter/internal/tokenizer"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	correlationId string = "correlationId"
	encodingKey   string = "encoding"
)

type TokenServer struct {
	server *http.Server
	log    *zap.Logger
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func JSON(c *gin.Context, code int, message string) {
	c.JSON(code, &ErrorResponse{
		Error: message,
	})
}

func NewTokenServer(log *zap.Logger, mode string, cfg *config.Config, p tokenizer.Provider) (*TokenServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is empty")
	}

	router := newRouter(log, mode == "production", cfg, p)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	return &TokenServer{
		log:    log,
		server: srv,
	}, nil
}

func newRouter(log *zap.Logger, prod bool, cfg *config.Config, p tokenizer.Provider) *gin.Engine {
	router := gin.New()

	if cfg.OpenTelemetryEnabled {
		router.Use(getOtelMiddleware())
	}
	router.Use(getMiddleware(log, prod))
	router.Use(getRecoveryMiddleware(log, prod))
	router.Use(getCorsMiddleware(cfg.CorsAllowedOrigins))

	router.NoRoute(func(c *gin.Context) {
		telemetry.Incr("tokencounter.web.route_does_not_exist", nil, 1)
		JSON(c, http.StatusNotFound, "route not supported")
	})

	router.GET("/health", getHealthCheckHandler())
	router.GET("/encodings", getEncodingsHandler(p, cfg.DefaultEncoding))
	router.POST("/analyze", getAnalyzeHandler(p, cfg.DefaultEncoding, log, prod))
	router.POST("/batch_tokenize", getBatchTokenizeHandler(p, cfg.DefaultEncoding, log, prod))
	router.POST("/compare_tokenizers", getCompareTokenizersHandler(p, log, prod))
	router.POST("/api/count-tokens", getCountTokensHandler(p, cfg.DefaultEncoding, cfg.MaxUploadSizeBytes, log, prod))

	if h := telemetry.MetricsHandler(); h != nil {
		router.GET("/metrics", gin.WrapH(h))
	}

	return router
}

func (ts *TokenServer) Run() {
	go func() {
		ts.log.Sugar().Infof("token server listening on %s", ts.server.Addr)
		if err := ts.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			ts.log.Sugar().Fatalf("error token server listening: %v", err)
		}
	}()
}

func (ts *TokenServer) Shutdown(ctx context.Context) error {
	if err := ts.server.Shutdown(ctx); err != nil {
		ts.log.Sugar().Infof("error shutting down token server: %v", err)

		return err
	}

	return nil
}

func logError(log *zap.Logger, msg string, prod bool, id string, err error) {
	if prod {
		log.Error(msg, zap.String(correlationId, id), zap.Error(err))
		return
	}

	log.Sugar().Errorf("correlationId:%s | %s | %v", id, msg, err)
}
