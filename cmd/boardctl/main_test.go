package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
	}))
	defer srv.Close()

	serverURL = srv.URL
	require.NoError(t, runHealth(healthCmd, nil))
}

func TestRunHealth_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	serverURL = srv.URL
	err := runHealth(healthCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestAPIRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/v1/workspaces":
			json.NewEncoder(w).Encode([]workspaceView{{ID: "ws-1", Name: "Q3"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	serverURL = srv.URL
	t.Setenv("BOARDCTL_TOKEN", "test-token")

	var workspaces []workspaceView
	require.NoError(t, apiRequest(http.MethodGet, "/api/v1/workspaces", nil, &workspaces))
	require.Len(t, workspaces, 1)
	assert.Equal(t, "Q3", workspaces[0].Name)
}

func TestAPIRequest_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"workspace not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	serverURL = srv.URL
	t.Setenv("BOARDCTL_TOKEN", "test-token")

	err := apiRequest(http.MethodGet, "/api/v1/workspaces/missing", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestAPIRequest_NoToken(t *testing.T) {
	t.Setenv("BOARDCTL_TOKEN", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	err := apiRequest(http.MethodGet, "/api/v1/workspaces", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}
