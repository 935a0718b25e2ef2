// Package domain models rainwater-harvesting feasibility for Indian districts.
//
// # Reference Data
//
// Three reference datasets are loaded once at startup and held in an
// immutable [Index]:
//
//	rainfall     NAME, NORMAL                     normal annual rainfall in mm
//	aquifer      State, Dominant_Aquifer_Type      free-text lithology composition
//	groundwater  District, State, Year,            depth to water table (mbgl)
//	             Pre_Monsoon, Post_Monsoon         as range strings
//
// Names are stored as published. Every comparison normalizes both sides by
// trimming and upper-casing (see [Normalize]).
//
// # Location Resolution
//
// A (district, state) pair is resolved against each dataset by walking an
// explicit rule list built by [Rules]:
//
//	district/exact → district/substring → state/exact → state/substring
//
// The first row satisfying the current rule wins. Substring matching can hit a
// longer name ("DELHI" inside "NEW DELHI"); such hits are kept and flagged via
// [ResolvedLocation.Ambiguous] when more than one row contains the candidate.
//
// # Groundwater Depth Strings
//
// CGWB depth classes appear as:
//
//	"5 to 10"   closed interval, depth of record = 10
//	">40"       open interval,   depth of record = 40
//	"2"         single value,    depth of record = 2
//	"N.A."      missing
//
// Anything else falls back to the interval 6 to 8 (depth of record 8) and is
// reported as a [ParseError]. The upper bound is the depth of record
// everywhere; [DepthRange.Midpoint] exists only for model feature preparation.
//
// # Aquifer Composition
//
// Aquifer strings list lithologies with optional qualifiers:
//
//	"Basalt (majority), Alluvium (some part)"
//
// "majority", "dominant" and "major" mark a primary lithology; "some" and
// "part" mark a secondary one. A primary lithology decides the score outright,
// otherwise the best unqualified lithology, otherwise the best secondary one.
// Scores range 0–5; a lithology missing from the table yields an unknown score,
// never zero.
//
// # Feasibility Score
//
//	feasibility = 0.30·rainfall + 0.25·runoff + 0.25·groundwater + 0.20·aquifer
//
// Each factor is clamped to [0, 1]. Rainfall below 350 mm short-circuits to
// the infeasible outcome.
package domain
