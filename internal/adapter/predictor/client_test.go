package predictor

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/rwh-feasibility-service/internal/domain"
	"github.com/couchcryptid/rwh-feasibility-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func bhopalFeatures() domain.AquiferFeatures {
	return domain.BuildAquiferFeatures(domain.AquiferObservation{
		State: "Madhya Pradesh", District: "Bhopal",
		PreMonsoon: "5 to 10", PostMonsoon: "2 to 5",
		Fluctuation: 3, ElevationM: 527, ActualRainfallMM: 1100, NormalRainfallMM: 1200, PercentDeparture: -8,
	})
}

func TestClient_Predict_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, contentTypeJSON, r.Header.Get(headerContentType))

		var got domain.AquiferFeatures
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "Bhopal", got.District)
		require.NotNil(t, got.PreMonsoonMid)
		assert.InDelta(t, 7.5, *got.PreMonsoonMid, 1e-9)

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"prediction":"Basalt","probabilities":{"Basalt":0.7,"Alluvium":0.3}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	pred, err := c.Predict(context.Background(), bhopalFeatures())
	require.NoError(t, err)

	assert.Equal(t, "Basalt", pred.Prediction)
	assert.InDelta(t, 0.7, pred.Probabilities["Basalt"], 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.PredictorRequests.WithLabelValues("success")), 1e-9)
}

func TestClient_Predict_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"Model not loaded"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Predict(context.Background(), bhopalFeatures())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "Model not loaded")
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.PredictorRequests.WithLabelValues("error")), 1e-9)
}

func TestClient_Predict_EmptyPrediction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"probabilities":{}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Predict(context.Background(), bhopalFeatures())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty prediction")
}

func TestClient_Predict_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.Predict(context.Background(), bhopalFeatures())
	require.Error(t, err)
}

func TestNewClient_TrimsSlash(t *testing.T) {
	c := NewClient("http://model:8000/", time.Second, observability.NewMetricsForTesting(), slog.New(slog.DiscardHandler))
	assert.Equal(t, "http://model:8000", c.baseURL)
	assert.Equal(t, time.Second, c.httpClient.Timeout)
}
