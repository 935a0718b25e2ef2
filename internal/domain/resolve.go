package domain

import "strings"

// CandidateKind tells which part of the location a candidate came from.
type CandidateKind string

const (
	CandidateDistrict CandidateKind = "district"
	CandidateState    CandidateKind = "state"
)

// Strategy is a name matching strategy.
type Strategy int

const (
	StrategyExact Strategy = iota
	StrategySubstring
)

func (s Strategy) String() string {
	switch s {
	case StrategyExact:
		return "exact"
	case StrategySubstring:
		return "substring"
	default:
		return "unknown"
	}
}

// strategies lists the per-candidate matching order.
var strategies = []Strategy{StrategyExact, StrategySubstring}

// Candidate is one identifier to look up in a named column.
type Candidate struct {
	Kind   CandidateKind `json:"kind"`
	Column string        `json:"column"`
	Value  string        `json:"value"`
}

// Rule pairs a candidate with a strategy. Resolution walks rules in order.
type Rule struct {
	Candidate Candidate
	Strategy  Strategy
}

// matches reports whether the normalized row value satisfies the rule.
func (r Rule) matches(rowValue string) bool {
	want := Normalize(r.Candidate.Value)
	got := Normalize(rowValue)
	switch r.Strategy {
	case StrategyExact:
		return got == want
	case StrategySubstring:
		return strings.Contains(got, want)
	default:
		return false
	}
}

// ResolvedLocation is the row a rule matched plus how it was reached.
type ResolvedLocation struct {
	Dataset   string
	Row       Row
	Candidate Candidate
	Strategy  Strategy
	// Ambiguous is set when a substring rule matched and more than one row
	// contains the candidate. The first row in dataset order is returned.
	Ambiguous bool
}

// MatchedName returns the value of the matched column in the resolved row.
func (l ResolvedLocation) MatchedName() string {
	return l.Row.Get(l.Candidate.Column)
}

// Rules expands candidates into the ordered rule list. Candidates with blank
// values are dropped.
func Rules(candidates []Candidate) []Rule {
	rules := make([]Rule, 0, len(candidates)*len(strategies))
	for _, c := range candidates {
		if Normalize(c.Value) == "" {
			continue
		}
		for _, s := range strategies {
			rules = append(rules, Rule{Candidate: c, Strategy: s})
		}
	}
	return rules
}

// Resolve returns the first row of table satisfying the first matching rule
// built from candidates. It fails with *LocationNotFoundError if none match.
func Resolve(table *Table, candidates []Candidate) (ResolvedLocation, error) {
	for _, rule := range Rules(candidates) {
		idx, hits := firstMatch(table, rule)
		if idx < 0 {
			continue
		}
		return ResolvedLocation{
			Dataset:   table.Name(),
			Row:       table.Row(idx),
			Candidate: rule.Candidate,
			Strategy:  rule.Strategy,
			Ambiguous: rule.Strategy == StrategySubstring && hits > 1,
		}, nil
	}
	return ResolvedLocation{}, &LocationNotFoundError{
		Dataset:    table.Name(),
		Candidates: append([]Candidate(nil), candidates...),
	}
}

// firstMatch returns the index of the first row matching rule and, for
// substring rules, how many rows match in total.
func firstMatch(table *Table, rule Rule) (int, int) {
	first, hits := -1, 0
	table.Each(func(i int, row Row) bool {
		if !rule.matches(row.Get(rule.Candidate.Column)) {
			return true
		}
		if first < 0 {
			first = i
		}
		hits++
		return rule.Strategy == StrategySubstring
	})
	return first, hits
}

// RainfallCandidates returns the lookup order for the rainfall dataset.
func RainfallCandidates(district, state string) []Candidate {
	return []Candidate{
		{Kind: CandidateDistrict, Column: ColRainfallName, Value: district},
		{Kind: CandidateState, Column: ColRainfallName, Value: state},
	}
}

// AquiferCandidates returns the lookup order for the aquifer dataset. The
// dataset is state-level but districts are tried first, as for rainfall.
func AquiferCandidates(district, state string) []Candidate {
	return []Candidate{
		{Kind: CandidateDistrict, Column: ColAquiferState, Value: district},
		{Kind: CandidateState, Column: ColAquiferState, Value: state},
	}
}

// GroundwaterCandidates returns the lookup order for the groundwater dataset.
func GroundwaterCandidates(district, state string) []Candidate {
	return []Candidate{
		{Kind: CandidateDistrict, Column: ColGroundwaterDistrict, Value: district},
		{Kind: CandidateState, Column: ColGroundwaterState, Value: state},
	}
}
