package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/rwh-feasibility-service/internal/domain"
	"github.com/couchcryptid/rwh-feasibility-service/internal/observability"
)

// Client implements domain.AquiferPredictor against a model server that
// exposes POST /predict.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a predictor client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// Predict sends features to the model and returns its class and probabilities.
func (c *Client) Predict(ctx context.Context, features domain.AquiferFeatures) (domain.AquiferPrediction, error) {
	pred, err := c.doRequest(ctx, features)
	if err != nil {
		c.metrics.PredictorRequests.WithLabelValues("error").Inc()
		c.logger.Warn("aquifer prediction failed", "state", features.State, "district", features.District, "error", err)
		return domain.AquiferPrediction{}, err
	}
	c.metrics.PredictorRequests.WithLabelValues("success").Inc()
	return pred, nil
}

func (c *Client) doRequest(ctx context.Context, features domain.AquiferFeatures) (domain.AquiferPrediction, error) {
	body, err := json.Marshal(features)
	if err != nil {
		return domain.AquiferPrediction{}, fmt.Errorf("encode features: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return domain.AquiferPrediction{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.AquiferPrediction{}, fmt.Errorf("predict request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.AquiferPrediction{}, fmt.Errorf("predictor API error: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var pred domain.AquiferPrediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return domain.AquiferPrediction{}, fmt.Errorf("decode response: %w", err)
	}
	if pred.Prediction == "" {
		return domain.AquiferPrediction{}, fmt.Errorf("decode response: empty prediction")
	}
	return pred, nil
}
