package domain

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// MaxAquiferScore is the highest lithology score.
const MaxAquiferScore = 5

// lithologyScores rates groundwater storage and recharge suitability.
// Keys are normalized.
var lithologyScores = map[string]int{
	"ALLUVIUM":        5,
	"LIMESTONE":       5,
	"SANDSTONE":       4,
	"BASALT":          3,
	"SCHIST":          3,
	"LATERITE":        3,
	"KHONDALITE":      3,
	"GRANITE":         2,
	"GNEISS":          2,
	"BASEMENT GNEISS": 2,
	"SHALE":           2,
	"QUARTZITE":       2,
	"INTRUSIVE":       2,
}

// parentheticalRe strips qualifier annotations such as "(majority)".
var parentheticalRe = regexp.MustCompile(`\(.*?\)`)

// LithologyRole tags a lithology by its qualifier.
type LithologyRole int

const (
	RolePlain LithologyRole = iota
	RolePrimary
	RoleSecondary
)

func (r LithologyRole) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleSecondary:
		return "secondary"
	default:
		return "plain"
	}
}

// MarshalText renders the role name in JSON.
func (r LithologyRole) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// LithologyToken is one lithology from a composition string.
type LithologyToken struct {
	Name string        `json:"name"`
	Role LithologyRole `json:"role"`
}

// AquiferComposition is the parsed form of a Dominant_Aquifer_Type string.
type AquiferComposition struct {
	Raw    string           `json:"raw"`
	Tokens []LithologyToken `json:"tokens"`
}

// ParseAquiferComposition splits a comma-separated lithology description into
// tagged tokens. Segments that are empty once annotations are removed are dropped.
func ParseAquiferComposition(raw string) AquiferComposition {
	comp := AquiferComposition{Raw: raw}
	for _, part := range strings.Split(raw, ",") {
		segment := strings.TrimSpace(part)
		base := strings.Join(strings.Fields(parentheticalRe.ReplaceAllString(segment, "")), " ")
		if base == "" {
			continue
		}
		comp.Tokens = append(comp.Tokens, LithologyToken{Name: base, Role: classifySegment(segment)})
	}
	return comp
}

func classifySegment(segment string) LithologyRole {
	s := strings.ToLower(segment)
	switch {
	case strings.Contains(s, "majority"), strings.Contains(s, "dominant"), strings.Contains(s, "major"):
		return RolePrimary
	case strings.Contains(s, "some"), strings.Contains(s, "part"):
		return RoleSecondary
	default:
		return RolePlain
	}
}

// Score reduces the composition by precedence: the first primary lithology
// decides alone; otherwise the best known plain lithology; otherwise the best
// known secondary lithology; otherwise the score is unknown.
func (c AquiferComposition) Score() AquiferScore {
	var plain, secondary []string
	for _, tok := range c.Tokens {
		switch tok.Role {
		case RolePrimary:
			return LookupLithology(tok.Name)
		case RoleSecondary:
			secondary = append(secondary, tok.Name)
		default:
			plain = append(plain, tok.Name)
		}
	}
	if len(plain) > 0 {
		return bestLithology(plain)
	}
	return bestLithology(secondary)
}

// ScoreAquifer parses raw and scores it.
func ScoreAquifer(raw string) AquiferScore {
	return ParseAquiferComposition(raw).Score()
}

// LookupLithology returns the table score for name, or an unknown score.
func LookupLithology(name string) AquiferScore {
	if v, ok := lithologyScores[Normalize(name)]; ok {
		return KnownAquiferScore(v)
	}
	return UnknownAquiferScore()
}

func bestLithology(names []string) AquiferScore {
	best := UnknownAquiferScore()
	for _, n := range names {
		s := LookupLithology(n)
		if v, ok := s.Value(); ok {
			if cur, known := best.Value(); !known || v > cur {
				best = s
			}
		}
	}
	return best
}

// AquiferScore is a lithology score that may be unknown. The zero value is unknown.
type AquiferScore struct {
	value int
	known bool
}

// KnownAquiferScore wraps a numeric score.
func KnownAquiferScore(v int) AquiferScore {
	return AquiferScore{value: v, known: true}
}

// UnknownAquiferScore returns the unknown score.
func UnknownAquiferScore() AquiferScore {
	return AquiferScore{}
}

// Value returns the score and whether it is known.
func (s AquiferScore) Value() (int, bool) {
	return s.value, s.known
}

// Known reports whether the score is numeric.
func (s AquiferScore) Known() bool { return s.known }

// Factor returns score / MaxAquiferScore. It fails with ErrUnknownAquiferScore
// rather than treating an unknown score as zero.
func (s AquiferScore) Factor() (float64, error) {
	if !s.known {
		return 0, ErrUnknownAquiferScore
	}
	return float64(s.value) / MaxAquiferScore, nil
}

func (s AquiferScore) String() string {
	if !s.known {
		return "Unknown"
	}
	return strconv.Itoa(s.value)
}

// MarshalJSON encodes a known score as a number and an unknown one as null.
func (s AquiferScore) MarshalJSON() ([]byte, error) {
	if !s.known {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON accepts a number or null.
func (s *AquiferScore) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = UnknownAquiferScore()
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = KnownAquiferScore(v)
	return nil
}
