package domain

import (
	"fmt"
	"math"
	"strings"
)

// DefaultDailyDemandLPCD is the assumed daily water demand in litres per person.
const DefaultDailyDemandLPCD = 7.0

// Scoring constants.
const (
	minFeasibleRainfallMM = 350.0
	rainfallSaturationMM  = 1000.0
	// runoffSaturationMM is the harvested depth (litres per m² of roof) at
	// which the runoff factor saturates.
	runoffSaturationMM = 600.0
	// missingDepthMBGL replaces N.A. groundwater readings.
	missingDepthMBGL = "10"
	// shallowPostMonsoon is the post-monsoon reading that signals little need.
	shallowPostMonsoon = "2"

	weightRainfall    = 0.30
	weightRunoff      = 0.25
	weightGroundwater = 0.25
	weightAquifer     = 0.20
)

// runoffCoefficients maps normalized roof types to collectible fraction of rainfall.
var runoffCoefficients = map[string]float64{
	"CONCRETE":    0.85,
	"GI_SHEET":    0.80,
	"METAL_SHEET": 0.80,
	"TILE":        0.75,
	"THATCHED":    0.60,
}

// RunoffCoefficient returns the coefficient for roofType. Unknown roof types
// collect nothing.
func RunoffCoefficient(roofType string) float64 {
	key := strings.ReplaceAll(Normalize(roofType), " ", "_")
	return runoffCoefficients[key]
}

// FeasibilityInput holds everything the scorer needs.
type FeasibilityInput struct {
	RoofAreaM2      float64
	RoofType        string
	RainfallMM      float64
	Dwellers        int
	DailyDemandLPCD float64
	GroundwaterPre  string
	GroundwaterPost string
	Aquifer         AquiferScore
}

func (in FeasibilityInput) dailyDemand() float64 {
	if in.DailyDemandLPCD <= 0 {
		return DefaultDailyDemandLPCD
	}
	return in.DailyDemandLPCD
}

// Validate rejects inputs the formulas cannot handle.
func (in FeasibilityInput) Validate() error {
	switch {
	case math.IsNaN(in.RoofAreaM2) || in.RoofAreaM2 <= 0:
		return fmt.Errorf("%w: roof area must be positive, got %v", ErrInvalidInput, in.RoofAreaM2)
	case in.Dwellers < 0:
		return fmt.Errorf("%w: dwellers must not be negative, got %d", ErrInvalidInput, in.Dwellers)
	case math.IsNaN(in.RainfallMM) || in.RainfallMM < 0:
		return fmt.Errorf("%w: rainfall must not be negative, got %v", ErrInvalidInput, in.RainfallMM)
	}
	return nil
}

// AnnualDemand returns litres needed per year.
func AnnualDemand(in FeasibilityInput) float64 {
	return float64(in.Dwellers) * in.dailyDemand() * 365
}

// HarvestedWater returns rainfall × roof area × runoff coefficient. With
// rainfall in mm and area in m² the product is in litres.
func HarvestedWater(in FeasibilityInput) float64 {
	return in.RainfallMM * in.RoofAreaM2 * RunoffCoefficient(in.RoofType)
}

// Outcome tags a FeasibilityResult.
type Outcome int

const (
	OutcomeScored Outcome = iota
	OutcomeInfeasible
	OutcomeUnknownAquifer
)

func (o Outcome) String() string {
	switch o {
	case OutcomeScored:
		return "scored"
	case OutcomeInfeasible:
		return "infeasible"
	case OutcomeUnknownAquifer:
		return "unknown_aquifer"
	default:
		return "unknown"
	}
}

// MarshalText renders the outcome name in JSON.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses an outcome name.
func (o *Outcome) UnmarshalText(b []byte) error {
	for _, c := range []Outcome{OutcomeScored, OutcomeInfeasible, OutcomeUnknownAquifer} {
		if c.String() == string(b) {
			*o = c
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", b)
}

// Factors is the per-component breakdown of a scored result.
type Factors struct {
	Rainfall    float64 `json:"rainfall"`
	Runoff      float64 `json:"runoff"`
	Groundwater float64 `json:"groundwater"`
	Aquifer     float64 `json:"aquifer"`
}

// FeasibilityResult is either a score, the infeasible outcome, or the
// unknown-aquifer outcome. Score and Factors are meaningful only when scored.
type FeasibilityResult struct {
	Outcome Outcome
	Score   float64
	Factors Factors
	Notes   []string
}

// Value returns the score and true for scored results.
func (r FeasibilityResult) Value() (float64, bool) {
	if r.Outcome != OutcomeScored {
		return 0, false
	}
	return r.Score, true
}

// Err returns ErrUnknownAquiferScore for the unknown-aquifer outcome and nil otherwise.
func (r FeasibilityResult) Err() error {
	if r.Outcome == OutcomeUnknownAquifer {
		return ErrUnknownAquiferScore
	}
	return nil
}

// ScoreFeasibility computes the weighted feasibility score. Rainfall below
// 350 mm returns the infeasible outcome before anything else is evaluated.
func ScoreFeasibility(in FeasibilityInput) (FeasibilityResult, error) {
	if err := in.Validate(); err != nil {
		return FeasibilityResult{}, err
	}
	if in.RainfallMM < minFeasibleRainfallMM {
		return FeasibilityResult{Outcome: OutcomeInfeasible}, nil
	}

	aquifer, err := in.Aquifer.Factor()
	if err != nil {
		return FeasibilityResult{Outcome: OutcomeUnknownAquifer}, nil
	}

	groundwater, notes := GroundwaterLevelFactor(in.GroundwaterPre, in.GroundwaterPost)
	factors := Factors{
		Rainfall:    RainfallFactor(in.RainfallMM),
		Runoff:      RunoffFactor(in),
		Groundwater: groundwater,
		Aquifer:     aquifer,
	}
	score := weightRainfall*factors.Rainfall +
		weightRunoff*factors.Runoff +
		weightGroundwater*factors.Groundwater +
		weightAquifer*factors.Aquifer

	return FeasibilityResult{
		Outcome: OutcomeScored,
		Score:   score,
		Factors: factors,
		Notes:   notes,
	}, nil
}

// RainfallFactor is rainfall / 1000 mm, capped at 1.
func RainfallFactor(mm float64) float64 {
	return math.Min(mm/rainfallSaturationMM, 1)
}

// RunoffFactor is harvested water per m² of roof over 600, capped at 1.
func RunoffFactor(in FeasibilityInput) float64 {
	if in.RoofAreaM2 <= 0 {
		return 0
	}
	return math.Min(HarvestedWater(in)/(in.RoofAreaM2*runoffSaturationMM), 1)
}

// GroundwaterLevelFactor is the seasonal recharge fraction (pre − post) / pre,
// floored at zero. N.A. readings are replaced with 10 m and noted.
// Unparseable readings use the documented fallback interval and are noted.
func GroundwaterLevelFactor(pre, post string) (float64, []string) {
	var notes []string
	if IsMissingDepth(pre) {
		notes = append(notes, "Missing pre-monsoon groundwater data, assuming 10 mbgl")
		pre = missingDepthMBGL
	}
	if IsMissingDepth(post) {
		notes = append(notes, "Missing post-monsoon groundwater data, assuming 10 mbgl")
		post = missingDepthMBGL
	}
	if strings.TrimSpace(post) == shallowPostMonsoon {
		notes = append(notes, "Groundwater is available at just 2 mbgl, recharge need is low")
	}

	preRange, err := ParseDepthRange(pre)
	if err != nil {
		notes = append(notes, err.Error())
	}
	postRange, err := ParseDepthRange(post)
	if err != nil {
		notes = append(notes, err.Error())
	}

	preDepth := preRange.Depth()
	if preDepth == 0 {
		return 0, notes
	}
	return math.Max(0, (preDepth-postRange.Depth())/preDepth), notes
}
