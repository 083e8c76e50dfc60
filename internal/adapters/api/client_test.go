// internal/adapters/api/client_test.go
package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solesync/solesync/internal/adapters/api"
	redis_a "github.com/solesync/solesync/internal/adapters/redis_adapter"
	"github.com/solesync/solesync/test/helpers"
)

func TestClient_GetJSON(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[],"totalCount":0}`))
	}))
	defer server.Close()

	client := api.NewClient(server.URL, helpers.TestLogger())

	raw, err := client.GetJSON(context.Background(), "/Shoes", map[string]string{
		"pageNumber": "2",
		"pageSize":   "10",
		"search":     "",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[],"totalCount":0}`, string(raw))
	assert.Equal(t, "/Shoes", gotPath)
	// Empty parameters never reach the wire.
	assert.Equal(t, "pageNumber=2&pageSize=10", gotQuery)
}

func TestClient_RequestHeaders(t *testing.T) {
	var gotContentType, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := api.NewClient(server.URL, helpers.TestLogger())

	raw, err := client.GetJSON(context.Background(), "/Shoes", nil)
	require.NoError(t, err)
	assert.Nil(t, raw, "204 resolves to an empty payload")
	assert.Equal(t, "application/json", gotContentType)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_ErrorResponses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantMessage string
	}{
		{
			name:        "json_message_field",
			status:      http.StatusNotFound,
			contentType: "application/json",
			body:        `{"message":"shoe not found"}`,
			wantMessage: "HTTP 404 - shoe not found",
		},
		{
			name:        "json_error_field",
			status:      http.StatusBadRequest,
			contentType: "application/json; charset=utf-8",
			body:        `{"error":"invalid payload"}`,
			wantMessage: "HTTP 400 - invalid payload",
		},
		{
			name:        "plain_text_body",
			status:      http.StatusBadGateway,
			contentType: "text/plain",
			body:        "upstream unavailable",
			wantMessage: "HTTP 502 - upstream unavailable",
		},
		{
			name:        "malformed_json_body",
			status:      http.StatusInternalServerError,
			contentType: "application/json",
			body:        `{"message": oops`,
			wantMessage: "HTTP 500",
		},
		{
			name:        "empty_body",
			status:      http.StatusForbidden,
			contentType: "application/json",
			body:        "",
			wantMessage: "HTTP 403",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := api.NewClient(server.URL, helpers.TestLogger())

			_, err := client.GetJSON(context.Background(), "/Shoes", nil)
			require.Error(t, err)
			assert.Equal(t, tt.wantMessage, err.Error())
			assert.True(t, api.IsHTTPError(err, tt.status))
		})
	}
}

func TestClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"shoeId":42}`))
	}))
	defer server.Close()

	client := api.NewClient(server.URL, helpers.TestLogger())

	raw, err := client.PostJSON(context.Background(), "/Shoes", map[string]any{"brand": "Nike"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"shoeId":42}`, string(raw))
}

func TestClient_PageCache(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			atomic.AddInt64(&hits, 1)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"shoeId":1}],"totalCount":1}`))
	}))
	defer server.Close()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := redis_a.NewCache(redisClient, time.Minute, helpers.TestLogger())

	client := api.NewClient(server.URL, helpers.TestLogger(),
		api.WithPageCache(cache, time.Minute))

	ctx := context.Background()
	query := map[string]string{"pageNumber": "1", "pageSize": "10"}

	// First read goes to the server, second is served from cache.
	first, err := client.GetJSON(ctx, "/Shoes", query)
	require.NoError(t, err)
	second, err := client.GetJSON(ctx, "/Shoes", query)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))

	// A mutation on the resource drops its cached pages.
	_, err = client.PostJSON(ctx, "/Shoes", map[string]any{"brand": "Nike"})
	require.NoError(t, err)

	_, err = client.GetJSON(ctx, "/Shoes", query)
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&hits))
}

func TestClient_CacheScopedPerResource(t *testing.T) {
	var supplierHits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/Suppliers" {
			atomic.AddInt64(&supplierHits, 1)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[],"totalCount":0}`))
	}))
	defer server.Close()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := redis_a.NewCache(redisClient, time.Minute, helpers.TestLogger())

	client := api.NewClient(server.URL, helpers.TestLogger(),
		api.WithPageCache(cache, time.Minute))

	ctx := context.Background()

	_, err := client.GetJSON(ctx, "/Suppliers", nil)
	require.NoError(t, err)

	// Mutating shoes must not evict supplier pages.
	_, err = client.PostJSON(ctx, "/Shoes", map[string]any{"brand": "Nike"})
	require.NoError(t, err)

	_, err = client.GetJSON(ctx, "/Suppliers", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&supplierHits))
}

func TestClient_DeleteJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/Shoes/3", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := api.NewClient(server.URL, helpers.TestLogger())

	raw, err := client.DeleteJSON(context.Background(), "/Shoes/3")
	require.NoError(t, err)
	assert.Nil(t, raw)
}
