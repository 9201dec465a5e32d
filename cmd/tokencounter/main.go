package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/bricks-cloud/tokencounter/internal/config"
	"github.com/bricks-cloud/tokencounter/internal/logger/zap"
	"github.com/bricks-cloud/tokencounter/internal/server/web"
	"github.com/bricks-cloud/tokencounter/internal/telemetry"
	"github.com/bricks-cloud/tokencounter/internal/tokenizer"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	modePtr := flag.String("m", "dev", "select the mode that tokencounter runs in")
	envFilePtr := flag.String("e", ".env", "path of an optional .env file")
	flag.Parse()

	log := zap.NewLogger(*modePtr)
	defer log.Sync()
	lg := log.Sugar()

	gin.SetMode(gin.ReleaseMode)

	if err := godotenv.Load(*envFilePtr); err != nil && !os.IsNotExist(err) {
		lg.Fatalf("cannot load env file %s: %v", *envFilePtr, err)
	}

	cfg, err := config.ParseEnvVariables()
	if err != nil {
		lg.Fatalf("cannot parse environment variables: %v", err)
	}

	if len(cfg.SettingsFile) != 0 {
		s, err := config.LoadSettings(cfg.SettingsFile)
		if err != nil {
			lg.Fatalf("cannot load settings: %v", err)
		}

		cfg.Apply(s)
	}

	if err := telemetry.Init(cfg); err != nil {
		lg.Fatalf("cannot initialize telemetry: %v", err)
	}

	otelShutdown, err := telemetry.SetupOTelSDK(context.Background(), cfg)
	if err != nil {
		lg.Fatalf("cannot set up open telemetry: %v", err)
	}

	p, err := tokenizer.NewProvider(cfg.TokenizerBackend, cfg.DefaultEncoding, cfg.EncodingAliases, lg)
	if err != nil {
		lg.Fatalf("cannot create tokenizer provider: %v", err)
	}

	lg.Infof("tokenizer backend %s with default encoding %s", p.Backend(), cfg.DefaultEncoding)

	ts, err := web.NewTokenServer(log, *modePtr, cfg, p)
	if err != nil {
		lg.Fatalf("error creating token http server: %v", err)
	}

	ts.Run()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Infof("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := ts.Shutdown(ctx); err != nil {
		lg.Debugf("token server shutdown: %v", err)
	}

	if err := otelShutdown(ctx); err != nil {
		lg.Debugf("open telemetry shutdown: %v", err)
	}

	lg.Infof("server exited")
}
