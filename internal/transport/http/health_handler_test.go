package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickpulse/internal/services"
)

func TestGetHealth(t *testing.T) {
	logger := testLogger()
	handler := NewHealthHandler(services.NewHealthService(logger, nil, "v1.0.0"), logger)
	server := httptest.NewServer(handler.Routes())
	defer server.Close()

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeJSON(t, resp.Body)
	assert.Equal(t, "success", payload["status"])
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "v1.0.0", data["version"])
}
