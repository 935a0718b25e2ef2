package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultBroker    = "localhost:9092"
	testPredictorURL = "http://predictor.local:8000"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "databases", cfg.DataDir)
	assert.Equal(t, "maps", cfg.MapsDir)
	assert.Equal(t, "static", cfg.OutputDir)
	assert.InDelta(t, 7.0, cfg.DailyDemandLPCD, 1e-9)
	assert.Equal(t, 10*time.Minute, cfg.GeometryCacheTTL)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "rwh-assessment-requests", cfg.KafkaSourceTopic)
	assert.Equal(t, "rwh-assessments", cfg.KafkaSinkTopic)
	assert.Equal(t, "rwh-feasibility", cfg.KafkaGroupID)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.False(t, cfg.PredictorEnabled)
	assert.Empty(t, cfg.PredictorURL)
	assert.Equal(t, 5*time.Second, cfg.PredictorTimeout)
	assert.Equal(t, 15*time.Minute, cfg.PredictorCacheTTL)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DATA_DIR", "/srv/data")
	t.Setenv("MAPS_DIR", "/srv/maps")
	t.Setenv("OUTPUT_DIR", "/srv/out")
	t.Setenv("DAILY_DEMAND_LPCD", "40")
	t.Setenv("GEOMETRY_CACHE_TTL", "1h")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("PREDICTOR_URL", testPredictorURL)
	t.Setenv("PREDICTOR_TIMEOUT", "2s")
	t.Setenv("PREDICTOR_CACHE_TTL", "1m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/srv/data", cfg.DataDir)
	assert.Equal(t, "/srv/maps", cfg.MapsDir)
	assert.Equal(t, "/srv/out", cfg.OutputDir)
	assert.InDelta(t, 40.0, cfg.DailyDemandLPCD, 1e-9)
	assert.Equal(t, time.Hour, cfg.GeometryCacheTTL)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.True(t, cfg.PredictorEnabled)
	assert.Equal(t, testPredictorURL, cfg.PredictorURL)
	assert.Equal(t, 2*time.Second, cfg.PredictorTimeout)
	assert.Equal(t, time.Minute, cfg.PredictorCacheTTL)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_BatchSizeTooLarge(t *testing.T) {
	t.Setenv("BATCH_SIZE", "9999")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidBatchFlushInterval(t *testing.T) {
	t.Setenv("BATCH_FLUSH_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_FLUSH_INTERVAL")
}

func TestLoad_InvalidDurations(t *testing.T) {
	for _, key := range []string{"GEOMETRY_CACHE_TTL", "PREDICTOR_TIMEOUT", "PREDICTOR_CACHE_TTL"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "bad")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_InvalidDailyDemand(t *testing.T) {
	for _, v := range []string{"zero", "0", "-3"} {
		t.Setenv("DAILY_DEMAND_LPCD", v)
		_, err := Load()
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "DAILY_DEMAND_LPCD")
	}
}

func TestLoad_PredictorEnabledWithoutURL(t *testing.T) {
	t.Setenv("PREDICTOR_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PREDICTOR_URL")
}

func TestLoad_PredictorURLImpliesEnabled(t *testing.T) {
	t.Setenv("PREDICTOR_URL", testPredictorURL)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.PredictorEnabled)
}

func TestLoad_PredictorExplicitlyDisabled(t *testing.T) {
	t.Setenv("PREDICTOR_URL", testPredictorURL)
	t.Setenv("PREDICTOR_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.PredictorEnabled)
}
