package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeMidpoint(t *testing.T) {
	m := RangeMidpoint("5 to 10")
	require.NotNil(t, m)
	assert.InDelta(t, 7.5, *m, 1e-9)

	m = RangeMidpoint(">40")
	require.NotNil(t, m)
	assert.InDelta(t, 45.0, *m, 1e-9)

	assert.Nil(t, RangeMidpoint("N.A."))
	assert.Nil(t, RangeMidpoint("deep"))
}

func TestBuildAquiferFeatures_Key(t *testing.T) {
	obs := AquiferObservation{
		State: "Madhya Pradesh", District: "Bhopal",
		PreMonsoon: "5 to 10", PostMonsoon: "N.A.",
		Fluctuation: 2.5, ElevationM: 527, ActualRainfallMM: 1100, NormalRainfallMM: 1200, PercentDeparture: -8,
	}
	f := BuildAquiferFeatures(obs)
	assert.Nil(t, f.PostMonsoonMid)
	assert.Equal(t, "MADHYA PRADESH|BHOPAL|7.5|-|2.5|527|1100|1200|-8", f.Key())

	obs.District = " bhopal "
	assert.Equal(t, f.Key(), BuildAquiferFeatures(obs).Key())
}
