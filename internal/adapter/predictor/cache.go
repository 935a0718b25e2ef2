package predictor

import (
	"context"
	"time"

	"github.com/couchcryptid/rwh-feasibility-service/internal/domain"
	"github.com/couchcryptid/rwh-feasibility-service/internal/observability"
	gocache "github.com/patrickmn/go-cache"
)

// CachedPredictor wraps an AquiferPredictor with an expiring in-memory cache
// keyed by the feature vector.
type CachedPredictor struct {
	inner   domain.AquiferPredictor
	cache   *gocache.Cache
	metrics *observability.Metrics
}

// NewCachedPredictor creates a cache decorator around a predictor.
func NewCachedPredictor(inner domain.AquiferPredictor, ttl time.Duration, metrics *observability.Metrics) *CachedPredictor {
	return &CachedPredictor{
		inner:   inner,
		cache:   gocache.New(ttl, 2*ttl),
		metrics: metrics,
	}
}

func (c *CachedPredictor) Predict(ctx context.Context, features domain.AquiferFeatures) (domain.AquiferPrediction, error) {
	key := features.Key()
	if v, found := c.cache.Get(key); found {
		c.metrics.CacheLookups.WithLabelValues("prediction", "hit").Inc()
		return v.(domain.AquiferPrediction), nil
	}
	c.metrics.CacheLookups.WithLabelValues("prediction", "miss").Inc()

	pred, err := c.inner.Predict(ctx, features)
	if err != nil {
		return pred, err
	}
	c.cache.Set(key, pred, gocache.DefaultExpiration)
	return pred, nil
}
