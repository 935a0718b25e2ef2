package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RainfallCategory is an ordinal rainfall class. Higher values mean more rain.
type RainfallCategory int

const (
	RainfallNoData RainfallCategory = iota
	RainfallLowDeficient
	RainfallDeficient
	RainfallNormal
	RainfallHigh
	RainfallVeryHigh
)

func (c RainfallCategory) String() string {
	switch c {
	case RainfallLowDeficient:
		return "LowDeficient"
	case RainfallDeficient:
		return "Deficient"
	case RainfallNormal:
		return "Normal"
	case RainfallHigh:
		return "High"
	case RainfallVeryHigh:
		return "VeryHigh"
	default:
		return "NoData"
	}
}

// Code returns the short map legend code.
func (c RainfallCategory) Code() string {
	switch c {
	case RainfallLowDeficient:
		return "LD"
	case RainfallDeficient:
		return "D"
	case RainfallNormal:
		return "N"
	case RainfallHigh:
		return "E"
	case RainfallVeryHigh:
		return "LE"
	default:
		return "*"
	}
}

// MarshalText renders the category name in JSON.
func (c RainfallCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a category name.
func (c *RainfallCategory) UnmarshalText(b []byte) error {
	for v := RainfallNoData; v <= RainfallVeryHigh; v++ {
		if v.String() == string(b) {
			*c = v
			return nil
		}
	}
	return fmt.Errorf("unknown rainfall category %q", b)
}

// ClassifyRainfall maps normal annual rainfall in mm to a category. Lower
// bounds are exclusive. NaN and non-positive values have no data.
func ClassifyRainfall(mm float64) RainfallCategory {
	switch {
	case math.IsNaN(mm) || mm <= 0:
		return RainfallNoData
	case mm > 1500:
		return RainfallVeryHigh
	case mm > 1000:
		return RainfallHigh
	case mm > 700:
		return RainfallNormal
	case mm > 400:
		return RainfallDeficient
	default:
		return RainfallLowDeficient
	}
}

// ParseRainfall parses a raw NORMAL value. Blank or malformed values return NaN.
func ParseRainfall(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// MissingDepth is the groundwater sentinel for unreported values.
const MissingDepth = "N.A."

// Fallback interval for unparseable depth strings, in mbgl.
const (
	fallbackDepthLow  = 6.0
	fallbackDepthHigh = 8.0
)

// DepthRange is a parsed groundwater depth interval in mbgl.
type DepthRange struct {
	Low  float64
	High float64
	// Open marks ">N" ranges with no upper bound; High equals Low.
	Open bool
}

// Depth returns the depth of record: the upper bound, or N for ">N".
func (r DepthRange) Depth() float64 {
	return r.High
}

// Midpoint returns the interval midpoint. Open ranges assume N+5, so ">40"
// reads as 45. Used only to prepare model features.
func (r DepthRange) Midpoint() float64 {
	if r.Open {
		return r.Low + 5
	}
	return (r.Low + r.High) / 2
}

// ParseDepthRange parses "A to B", ">N" or a plain number. Anything else
// returns the 6 to 8 fallback together with a *ParseError.
func ParseDepthRange(raw string) (DepthRange, error) {
	s := strings.TrimSpace(raw)
	switch {
	case strings.Contains(s, "to"):
		parts := strings.SplitN(s, "to", 2)
		lo, errLo := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		hi, errHi := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLo == nil && errHi == nil {
			return DepthRange{Low: lo, High: hi}, nil
		}
	case strings.HasPrefix(s, ">"):
		n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(s, ">")), 64)
		if err == nil {
			return DepthRange{Low: n, High: n, Open: true}, nil
		}
	default:
		n, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return DepthRange{Low: n, High: n}, nil
		}
	}
	return DepthRange{Low: fallbackDepthLow, High: fallbackDepthHigh}, &ParseError{
		Field:    "groundwater depth",
		Value:    raw,
		Fallback: "6 to 8",
	}
}

// IsMissingDepth reports whether raw is blank or the N.A. sentinel.
func IsMissingDepth(raw string) bool {
	s := strings.TrimSpace(raw)
	return s == "" || strings.EqualFold(s, MissingDepth) || strings.EqualFold(s, "nan")
}

// GroundwaterCategory is an ordinal depth band. Higher values mean deeper water.
type GroundwaterCategory int

const (
	GroundwaterNoData GroundwaterCategory = iota
	Groundwater0To2
	Groundwater2To5
	Groundwater5To10
	Groundwater10To20
	Groundwater20To40
	GroundwaterOver40
)

// String returns the CGWB band label used in map legends.
func (c GroundwaterCategory) String() string {
	switch c {
	case Groundwater0To2:
		return "0 to 2"
	case Groundwater2To5:
		return "2 to 5"
	case Groundwater5To10:
		return "5 to 10"
	case Groundwater10To20:
		return "10 to 20"
	case Groundwater20To40:
		return "20 to 40"
	case GroundwaterOver40:
		return ">40"
	default:
		return "NoData"
	}
}

// MarshalText renders the band label in JSON.
func (c GroundwaterCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a band label.
func (c *GroundwaterCategory) UnmarshalText(b []byte) error {
	for v := GroundwaterNoData; v <= GroundwaterOver40; v++ {
		if v.String() == string(b) {
			*c = v
			return nil
		}
	}
	return fmt.Errorf("unknown groundwater band %q", b)
}

// ClassifyGroundwaterDepth bands a raw depth string by its depth of record.
// Missing values have no data; unparseable values use the fallback interval.
func ClassifyGroundwaterDepth(raw string) GroundwaterCategory {
	if IsMissingDepth(raw) {
		return GroundwaterNoData
	}
	r, _ := ParseDepthRange(raw)
	if r.Open {
		// ">40" is deeper than its bound, so it bands just past it.
		return band(math.Nextafter(r.Low, math.Inf(1)))
	}
	return band(r.Depth())
}

func band(depth float64) GroundwaterCategory {
	switch {
	case depth <= 2:
		return Groundwater0To2
	case depth <= 5:
		return Groundwater2To5
	case depth <= 10:
		return Groundwater5To10
	case depth <= 20:
		return Groundwater10To20
	case depth <= 40:
		return Groundwater20To40
	default:
		return GroundwaterOver40
	}
}
