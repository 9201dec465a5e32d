package prometheus

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ExposesMetrics(t *testing.T) {
	c := Init()

	c.Incr("tokencounter.web.get_analyze_handler.requests", nil, 1)
	c.Incr("tokencounter.web.get_analyze_handler.requests", nil, 1)
	c.Incr("tokencounter.web.get_middleware.responses", []string{"status:200"}, 1)
	c.Timing("tokencounter.web.get_middleware.latency", 150*time.Millisecond, nil, 1)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `tokencounter_web_get_analyze_handler_requests{tags=""} 2`)
	assert.Contains(t, string(body), `tokencounter_web_get_middleware_responses{tags="status:200"} 1`)
	assert.Contains(t, string(body), `tokencounter_web_get_middleware_latency_count{tags=""} 1`)
}

func TestClient_NilIsNoop(t *testing.T) {
	var c *Client
	assert.NotPanics(t, func() {
		c.Incr("a", nil, 1)
		c.Timing("b", time.Second, nil, 1)
	})
}
