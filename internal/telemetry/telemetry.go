package telemetry

import (
	"errors"
	"net/http"
	"time"

	configPkg "github.com/bricks-cloud/tokencounter/internal/config"
	"github.com/bricks-cloud/tokencounter/internal/telemetry/prometheus"
	"github.com/bricks-cloud/tokencounter/internal/telemetry/stats"
)

type ProviderType string

const (
	PROVIDER_NONE       ProviderType = ""
	PROVIDER_DATADOG    ProviderType = "statsd"
	PROVIDER_PROMETHEUS ProviderType = "prometheus"
)

type Provider interface {
	Incr(name string, tags []string, rate float64)
	Timing(name string, value time.Duration, tags []string, rate float64)
}

type Client struct {
	Provider Provider
}

var Singleton *Client

// Init installs the provider named by cfg. An empty provider leaves
// telemetry disabled and every call a no-op.
func Init(cfg *configPkg.Config) error {
	if cfg == nil {
		return errors.New("config is empty")
	}

	switch ProviderType(cfg.TelemetryProvider) {
	case PROVIDER_NONE:
		Singleton = nil
		return nil
	case PROVIDER_DATADOG:
		c, err := stats.InitializeClient(stats.Config{
			Enabled: true,
			Address: cfg.StatsAddress,
		})
		if err != nil {
			return err
		}

		Singleton = &Client{
			Provider: c,
		}

		return nil
	case PROVIDER_PROMETHEUS:
		Singleton = &Client{
			Provider: prometheus.Init(),
		}

		return nil
	}

	return errors.New("unsupported telemetry provider")
}

// MetricsHandler returns the scrape handler when prometheus is the active
// provider and nil otherwise.
func MetricsHandler() http.Handler {
	if Singleton == nil {
		return nil
	}

	p, ok := Singleton.Provider.(*prometheus.Client)
	if !ok {
		return nil
	}

	return p.Handler()
}

func Incr(name string, tags []string, rate float64) {
	if Singleton != nil {
		Singleton.Provider.Incr(name, tags, rate)
	}
}

func Timing(name string, value time.Duration, tags []string, rate float64) {
	if Singleton != nil {
		Singleton.Provider.Timing(name, value, tags, rate)
	}
}
