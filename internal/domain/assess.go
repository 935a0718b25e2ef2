package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// AssessmentRequest is one household asking whether RWH is worthwhile.
type AssessmentRequest struct {
	District   string  `json:"district"`
	State      string  `json:"state"`
	RoofAreaM2 float64 `json:"roofArea"`
	RoofType   string  `json:"roofType"`
	Dwellers   int     `json:"dwellers"`
}

// Validate checks the request shape before any lookup happens.
func (r AssessmentRequest) Validate() error {
	if strings.TrimSpace(r.District) == "" && strings.TrimSpace(r.State) == "" {
		return fmt.Errorf("%w: district or state is required", ErrInvalidInput)
	}
	if r.RoofAreaM2 <= 0 {
		return fmt.Errorf("%w: roofArea must be positive", ErrInvalidInput)
	}
	if r.Dwellers < 0 {
		return fmt.Errorf("%w: dwellers must not be negative", ErrInvalidInput)
	}
	return nil
}

// Resolution records how one dataset lookup was satisfied.
type Resolution struct {
	Dataset     string        `json:"dataset"`
	Candidate   CandidateKind `json:"candidate"`
	Strategy    string        `json:"strategy"`
	MatchedName string        `json:"matched_name"`
	Ambiguous   bool          `json:"ambiguous,omitempty"`
}

func newResolution(l ResolvedLocation) Resolution {
	return Resolution{
		Dataset:     l.Dataset,
		Candidate:   l.Candidate.Kind,
		Strategy:    l.Strategy.String(),
		MatchedName: l.MatchedName(),
		Ambiguous:   l.Ambiguous,
	}
}

// Assessment is the scoring response.
type Assessment struct {
	District   string  `json:"district"`
	State      string  `json:"state"`
	RoofAreaM2 float64 `json:"roofArea"`
	RoofType   string  `json:"roofType"`
	Dwellers   int     `json:"dwellers"`

	AquiferType            string       `json:"aquiferType"`
	AquiferScore           AquiferScore `json:"aquiferScore"`
	GroundwaterPreMonsoon  string       `json:"groundwaterPreMonsoon"`
	GroundwaterPostMonsoon string       `json:"groundwaterPostMonsoon"`
	RainfallMM             float64      `json:"rainfallMM"`
	AnnualDemandLiters     float64      `json:"annualDemandLiters"`
	HarvestedWaterLiters   float64      `json:"harvestedWaterLiters"`
	// FeasibilityScore is nil unless Outcome is scored.
	FeasibilityScore *float64 `json:"feasibilityScore"`
	Outcome          Outcome  `json:"outcome"`
	Factors          *Factors `json:"factors,omitempty"`

	RainfallCategory    RainfallCategory    `json:"rainfallCategory"`
	PreMonsoonCategory  GroundwaterCategory `json:"preMonsoonCategory"`
	PostMonsoonCategory GroundwaterCategory `json:"postMonsoonCategory"`
	Resolutions         []Resolution        `json:"resolutions"`
	Notes               []string            `json:"notes,omitempty"`
	AssessedAt          time.Time           `json:"assessed_at"`
}

// Assessor resolves a location against the reference index and scores it.
type Assessor struct {
	index           *Index
	// groundwater holds the latest row per district.
	groundwater     *Table
	dailyDemandLPCD float64
}

// NewAssessor builds an Assessor over index. A non-positive daily demand uses
// DefaultDailyDemandLPCD.
func NewAssessor(index *Index, dailyDemandLPCD float64) *Assessor {
	if dailyDemandLPCD <= 0 {
		dailyDemandLPCD = DefaultDailyDemandLPCD
	}
	a := &Assessor{index: index, dailyDemandLPCD: dailyDemandLPCD}
	if gw, err := index.Table(DatasetGroundwater); err == nil {
		a.groundwater = LatestGroundwaterTable(gw)
	}
	return a
}

// table returns the table dataset lookups run against. Groundwater lookups
// only see the latest year of each district.
func (a *Assessor) table(dataset string) (*Table, error) {
	if dataset == DatasetGroundwater && a.groundwater != nil {
		return a.groundwater, nil
	}
	return a.index.Table(dataset)
}

// Index exposes the reference index the assessor reads from.
func (a *Assessor) Index() *Index { return a.index }

// Lookup is the raw reference data resolved for a location.
type Lookup struct {
	Rainfall    ResolvedLocation
	Aquifer     ResolvedLocation
	Groundwater ResolvedLocation
}

// Locate resolves district and state against all three datasets, in the
// order rainfall, aquifer, groundwater. Groundwater resolves against the
// latest year of each district. The first failure is returned.
func (a *Assessor) Locate(district, state string) (Lookup, error) {
	var out Lookup
	steps := []struct {
		dataset    string
		candidates []Candidate
		dst        *ResolvedLocation
	}{
		{DatasetRainfall, RainfallCandidates(district, state), &out.Rainfall},
		{DatasetAquifer, AquiferCandidates(district, state), &out.Aquifer},
		{DatasetGroundwater, GroundwaterCandidates(district, state), &out.Groundwater},
	}
	for _, step := range steps {
		table, err := a.table(step.dataset)
		if err != nil {
			return Lookup{}, err
		}
		loc, err := Resolve(table, step.candidates)
		if err != nil {
			return Lookup{}, err
		}
		*step.dst = loc
	}
	return out, nil
}

// Assess runs the full lookup and scoring for req. Unknown aquifer scores
// fail with *UnknownAquiferError; the partially filled Assessment is still
// returned for diagnostics.
func (a *Assessor) Assess(req AssessmentRequest) (Assessment, error) {
	if err := req.Validate(); err != nil {
		return Assessment{}, err
	}
	lookup, err := a.Locate(req.District, req.State)
	if err != nil {
		return Assessment{}, err
	}

	var rainfall float64
	var notes []string
	lookup.Rainfall, rainfall, notes = a.rainfallOf(lookup.Rainfall, req.State)

	aquiferType := lookup.Aquifer.Row.Get(ColAquiferType)
	score := ScoreAquifer(aquiferType)
	pre := strings.TrimSpace(lookup.Groundwater.Row.Get(ColGroundwaterPre))
	post := strings.TrimSpace(lookup.Groundwater.Row.Get(ColGroundwaterPost))

	in := FeasibilityInput{
		RoofAreaM2:      req.RoofAreaM2,
		RoofType:        req.RoofType,
		RainfallMM:      rainfall,
		Dwellers:        req.Dwellers,
		DailyDemandLPCD: a.dailyDemandLPCD,
		GroundwaterPre:  pre,
		GroundwaterPost: post,
		Aquifer:         score,
	}
	result, err := ScoreFeasibility(in)
	if err != nil {
		return Assessment{}, err
	}

	out := Assessment{
		District:               req.District,
		State:                  req.State,
		RoofAreaM2:             req.RoofAreaM2,
		RoofType:               req.RoofType,
		Dwellers:               req.Dwellers,
		AquiferType:            aquiferType,
		AquiferScore:           score,
		GroundwaterPreMonsoon:  pre,
		GroundwaterPostMonsoon: post,
		RainfallMM:             rainfall,
		AnnualDemandLiters:     AnnualDemand(in),
		HarvestedWaterLiters:   HarvestedWater(in),
		Outcome:                result.Outcome,
		RainfallCategory:       ClassifyRainfall(rainfall),
		PreMonsoonCategory:     ClassifyGroundwaterDepth(pre),
		PostMonsoonCategory:    ClassifyGroundwaterDepth(post),
		Resolutions: []Resolution{
			newResolution(lookup.Rainfall),
			newResolution(lookup.Aquifer),
			newResolution(lookup.Groundwater),
		},
		Notes:      append(notes, result.Notes...),
		AssessedAt: clock.Now().UTC(),
	}
	if v, ok := result.Value(); ok {
		factors := result.Factors
		out.FeasibilityScore = &v
		out.Factors = &factors
	}
	if result.Err() != nil {
		return out, &UnknownAquiferError{State: lookup.Aquifer.MatchedName(), Composition: aquiferType}
	}
	return out, nil
}

// rainfallOf reads the normal rainfall of the resolved row. An unreadable
// district value falls back to the state row. With no readable value left the
// rainfall counts as 0 mm, which classifies as no data and scores infeasible.
func (a *Assessor) rainfallOf(loc ResolvedLocation, state string) (ResolvedLocation, float64, []string) {
	raw := loc.Row.Get(ColRainfallNormal)
	if mm := ParseRainfall(raw); !math.IsNaN(mm) {
		return loc, mm, nil
	}
	if loc.Candidate.Kind == CandidateDistrict {
		if table, err := a.table(DatasetRainfall); err == nil {
			if st, err := Resolve(table, RainfallCandidates("", state)); err == nil {
				if mm := ParseRainfall(st.Row.Get(ColRainfallNormal)); !math.IsNaN(mm) {
					pe := &ParseError{Field: "normal rainfall", Value: raw, Fallback: "state rainfall for " + st.MatchedName()}
					return st, mm, []string{pe.Error()}
				}
			}
		}
	}
	pe := &ParseError{Field: "normal rainfall", Value: raw, Fallback: "0 mm (no data)"}
	return loc, 0, []string{pe.Error()}
}
