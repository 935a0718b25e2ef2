package domain

import (
	"context"
	"fmt"
	"strings"
)

// AquiferFeatures is the model input for aquifer type prediction. Midpoints
// are nil when the range string cannot be read.
type AquiferFeatures struct {
	State            string   `json:"state"`
	District         string   `json:"district"`
	PreMonsoonMid    *float64 `json:"pre_monsoon_mid"`
	PostMonsoonMid   *float64 `json:"post_monsoon_mid"`
	Fluctuation      float64  `json:"fluctuation"`
	ElevationM       float64  `json:"elevation_m"`
	ActualRainfallMM float64  `json:"actual_rainfall_mm"`
	NormalRainfallMM float64  `json:"normal_rainfall_mm"`
	PercentDeparture float64  `json:"percent_departure"`
}

// Key returns a stable cache key for the features.
func (f AquiferFeatures) Key() string {
	return strings.Join([]string{
		Normalize(f.State), Normalize(f.District),
		optFloat(f.PreMonsoonMid), optFloat(f.PostMonsoonMid),
		fmt.Sprintf("%g|%g|%g|%g|%g", f.Fluctuation, f.ElevationM, f.ActualRainfallMM, f.NormalRainfallMM, f.PercentDeparture),
	}, "|")
}

func optFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}

// AquiferObservation is the raw observation a prediction is requested for.
type AquiferObservation struct {
	State            string  `json:"state"`
	District         string  `json:"district"`
	PreMonsoon       string  `json:"pre_monsoon"`
	PostMonsoon      string  `json:"post_monsoon"`
	Fluctuation      float64 `json:"fluctuation"`
	ElevationM       float64 `json:"elevation"`
	ActualRainfallMM float64 `json:"actual_rainfall"`
	NormalRainfallMM float64 `json:"normal_rainfall"`
	PercentDeparture float64 `json:"percent_dep"`
}

// BuildAquiferFeatures converts range strings to midpoints.
func BuildAquiferFeatures(obs AquiferObservation) AquiferFeatures {
	return AquiferFeatures{
		State:            obs.State,
		District:         obs.District,
		PreMonsoonMid:    RangeMidpoint(obs.PreMonsoon),
		PostMonsoonMid:   RangeMidpoint(obs.PostMonsoon),
		Fluctuation:      obs.Fluctuation,
		ElevationM:       obs.ElevationM,
		ActualRainfallMM: obs.ActualRainfallMM,
		NormalRainfallMM: obs.NormalRainfallMM,
		PercentDeparture: obs.PercentDeparture,
	}
}

// RangeMidpoint returns the midpoint of a depth string, or nil for missing and
// malformed values. Unlike the scorer it does not apply the 6 to 8 fallback.
func RangeMidpoint(raw string) *float64 {
	if IsMissingDepth(raw) {
		return nil
	}
	r, err := ParseDepthRange(raw)
	if err != nil {
		return nil
	}
	m := r.Midpoint()
	return &m
}

// AquiferPrediction is the predicted aquifer type with class probabilities.
type AquiferPrediction struct {
	Prediction    string             `json:"prediction"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// AquiferPredictor wraps a trained aquifer-type classifier.
type AquiferPredictor interface {
	Predict(ctx context.Context, features AquiferFeatures) (AquiferPrediction, error)
}
