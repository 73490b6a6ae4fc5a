package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"task-query-workers/internal/common/config"
)

func TestRetryWithBackoff(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(func() error {
			calls++
			if calls < 3 {
				return errors.New("connection refused")
			}
			return nil
		}, 5, time.Millisecond, zap.NewNop(), "test")

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(func() error {
			calls++
			return errors.New("connection refused")
		}, 3, time.Millisecond, zap.NewNop(), "Redis connection")

		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.Contains(t, err.Error(), "Redis connection failed after 3 attempts")
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestZeebeClientConfig(t *testing.T) {
	cfg := &config.Config{Camunda: config.CamundaConfig{BrokerAddress: "zeebe:26500", RequestTimeout: 1500}}

	cc := zeebeClientConfig(cfg)

	assert.Equal(t, "zeebe:26500", cc.GatewayAddress)
	assert.True(t, cc.UsePlaintextConnection)
	assert.Equal(t, 1500*time.Millisecond, cc.RequestTimeout)
	require.NotNil(t, cc.RetryConfig)
	assert.Equal(t, 5, cc.RetryConfig.MaxRetries)
	assert.Equal(t, 2*time.Second, cc.RetryConfig.BaseDelay)
}

func TestHTTPServer(t *testing.T) {
	srv := newHTTPServer(":0", &app{})

	for _, path := range []string{"/health", "/ready"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["status"])
			assert.NotEmpty(t, body["time"])
		})
	}

	t.Run("/metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
