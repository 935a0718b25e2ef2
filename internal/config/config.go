package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Reference data and map locations.
	DataDir          string
	MapsDir          string
	OutputDir        string
	DailyDemandLPCD  float64
	GeometryCacheTTL time.Duration

	// Streaming assessments over Kafka.
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string

	BatchSize          int
	BatchFlushInterval time.Duration

	// Aquifer type predictor.
	PredictorURL      string
	PredictorEnabled  bool
	PredictorTimeout  time.Duration
	PredictorCacheTTL time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	geometryTTL, err := parseDuration("GEOMETRY_CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}
	predictorTimeout, err := parseDuration("PREDICTOR_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	predictorTTL, err := parseDuration("PREDICTOR_CACHE_TTL", "15m")
	if err != nil {
		return nil, err
	}

	demand, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("DAILY_DEMAND_LPCD", "7"), 64)
	if err != nil || demand <= 0 {
		return nil, errors.New("invalid DAILY_DEMAND_LPCD: must be a positive number")
	}

	predictorURL := os.Getenv("PREDICTOR_URL")
	predictorEnabled := predictorURL != ""
	if v := os.Getenv("PREDICTOR_ENABLED"); v != "" {
		predictorEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataDir:          sharedcfg.EnvOrDefault("DATA_DIR", "databases"),
		MapsDir:          sharedcfg.EnvOrDefault("MAPS_DIR", "maps"),
		OutputDir:        sharedcfg.EnvOrDefault("OUTPUT_DIR", "static"),
		DailyDemandLPCD:  demand,
		GeometryCacheTTL: geometryTTL,

		KafkaEnabled:     os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic: sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "rwh-assessment-requests"),
		KafkaSinkTopic:   sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "rwh-assessments"),
		KafkaGroupID:     sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "rwh-feasibility"),

		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		PredictorURL:      predictorURL,
		PredictorEnabled:  predictorEnabled,
		PredictorTimeout:  predictorTimeout,
		PredictorCacheTTL: predictorTTL,
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}
	if cfg.PredictorEnabled && cfg.PredictorURL == "" {
		return nil, errors.New("PREDICTOR_ENABLED is true but PREDICTOR_URL is not set")
	}

	return cfg, nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}
