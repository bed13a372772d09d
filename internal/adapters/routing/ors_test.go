package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"trip-planner-service/internal/adapters/httpclient"
	"trip-planner-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestORSRouterRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/directions/driving-hgv/geojson", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req directionsRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, [][]float64{{14.5058, 46.0569}, {15.9819, 45.815}}, req.Coordinates)

		_, _ = w.Write([]byte(`{"features":[{
			"geometry":{"coordinates":[[14.5058,46.0569],[15.2,45.9],[15.9819,45.815]]},
			"properties":{"summary":{"distance":140250.5,"duration":5400}}
		}]}`))
	}))
	defer srv.Close()

	router, err := NewORSRouter(httpclient.New(time.Second), srv.URL, "driving-hgv")
	require.NoError(t, err)

	res, err := router.Route(context.Background(), []domain.Coordinates{
		{Lat: 46.0569, Lng: 14.5058},
		{Lat: 45.815, Lng: 15.9819},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.InDelta(t, 140250.5, res.DistanceMeters, 1e-9)
	assert.InDelta(t, 5400, res.DurationSeconds, 1e-9)
	require.Len(t, res.Path, 3)
	assert.Equal(t, domain.Coordinates{Lat: 45.9, Lng: 15.2}, res.Path[1])
	assert.False(t, res.Estimated)
}

func TestORSRouterNoDistance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features":[{"geometry":{"coordinates":[]},"properties":{"summary":{}}}]}`))
	}))
	defer srv.Close()

	router, err := NewORSRouter(httpclient.New(time.Second), srv.URL, "")
	require.NoError(t, err)

	res, err := router.Route(context.Background(), []domain.Coordinates{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestORSRouterRejectsSinglePoint(t *testing.T) {
	router, err := NewORSRouter(httpclient.New(time.Second), "", "")
	require.NoError(t, err)

	_, err = router.Route(context.Background(), []domain.Coordinates{{Lat: 1, Lng: 1}})
	assert.Error(t, err)
}
