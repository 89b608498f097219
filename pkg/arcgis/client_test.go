package arcgis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	c := NewClient(url, Options{
		UserAgent:  "test-agent",
		Timeout:    5 * time.Second,
		MaxRetries: 3,
		RateLimit:  1000,
	})
	c.backoffBase = time.Millisecond
	return c
}

func TestQueryFeatures_SendsExpectedParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		q := r.URL.Query()
		assert.Equal(t, "geojson", q.Get("f"))
		assert.Equal(t, "esriGeometryPolygon", q.Get("geometryType"))
		assert.Equal(t, `{"rings":[[[0,0],[1,0],[1,1],[0,0]]]}`, q.Get("geometry"))
		assert.Equal(t, "IncidentSize >= 1", q.Get("where"))
		assert.Equal(t, "*", q.Get("outFields"))

		w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer srv.Close()

	body, err := newTestClient(srv.URL).QueryFeatures(context.Background(), Query{
		Geometry: json.RawMessage(`{"rings":[[[0,0],[1,0],[1,1],[0,0]]]}`),
		Where:    "IncidentSize >= 1",
	})
	require.NoError(t, err)
	assert.Contains(t, string(body), "FeatureCollection")
}

func TestQueryFeatures_ErrorInsideOKBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"code":400,"message":"Invalid where clause"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).QueryFeatures(context.Background(), Query{Where: "bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service error 400")
	assert.Contains(t, err.Error(), "Invalid where clause")
}

func TestQueryFeatures_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	body, err := newTestClient(srv.URL).QueryFeatures(context.Background(), Query{})
	require.NoError(t, err)
	assert.Contains(t, string(body), "features")
	assert.Equal(t, int32(3), calls.Load())
}

func TestQueryFeatures_ExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).QueryFeatures(context.Background(), Query{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retries exhausted")
}

func TestQueryFeatures_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).QueryFeatures(context.Background(), Query{})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestIncidentWhere(t *testing.T) {
	t.Parallel()

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 9, 30, 23, 59, 59, 0, time.UTC)

	where := IncidentWhere(1, from, to)
	assert.Equal(t,
		"IncidentSize >= 1 AND FireDiscoveryDateTime >= timestamp '2024-06-01 00:00:00' AND FireDiscoveryDateTime <= timestamp '2024-09-30 23:59:59'",
		where,
	)
}

func TestIncidentWhere_ConvertsToUTC(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("PDT", -7*3600)
	from := time.Date(2024, 5, 31, 17, 0, 0, 0, loc) // 2024-06-01 00:00:00 UTC

	where := IncidentWhere(5, from, from.Add(time.Hour))
	assert.Contains(t, where, "IncidentSize >= 5")
	assert.Contains(t, where, "'2024-06-01 00:00:00'")
}
