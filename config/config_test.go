package config

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_TTL", "bogus")
	t.Setenv("CORS_ORIGINS", " , ")
	t.Setenv("TWILIO_ACCOUNT_SID", "")

	cfg := Load()
	assert.Equal(t, 2*time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Twilio.Enabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("CORS_ORIGINS", "https://admin.example.com, http://localhost:5173")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Sessions.TTL)
	assert.Equal(t, 7, cfg.Store.MaxOpenConns)
	assert.Equal(t, []string{"https://admin.example.com", "http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.Twilio.Enabled())
}

func TestConnectDBRequiresURL(t *testing.T) {
	_, err := ConnectDB(StoreConfig{})
	assert.Error(t, err)
}

func TestInitLoggerFallsBackToInfo(t *testing.T) {
	log, err := InitLogger(&Config{Server: ServerConfig{Env: "development"}, Log: LogConfig{Level: "loud"}})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
}

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics("unit")
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/42", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/things/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestPerformanceLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(PerformanceLogger(zap.New(core)))
	r.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fast", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "request", entries[0].Message)
	assert.Equal(t, "/fast", entries[0].ContextMap()["path"])
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
}
