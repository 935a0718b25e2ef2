package domain

import (
	"sort"
	"strconv"
	"strings"
)

// TrendPoint is one yearly groundwater reading for a district.
type TrendPoint struct {
	Year        int    `json:"year"`
	PreMonsoon  string `json:"pre_monsoon"`
	PostMonsoon string `json:"post_monsoon"`
}

// GroundwaterTrends groups the groundwater table by district (as published)
// and sorts each series by year. Rows with an unparseable year are skipped.
func GroundwaterTrends(table *Table) map[string][]TrendPoint {
	trends := make(map[string][]TrendPoint)
	table.Each(func(_ int, row Row) bool {
		year, err := strconv.Atoi(strings.TrimSpace(row.Get(ColGroundwaterYear)))
		if err != nil {
			return true
		}
		district := strings.TrimSpace(row.Get(ColGroundwaterDistrict))
		trends[district] = append(trends[district], TrendPoint{
			Year:        year,
			PreMonsoon:  strings.TrimSpace(row.Get(ColGroundwaterPre)),
			PostMonsoon: strings.TrimSpace(row.Get(ColGroundwaterPost)),
		})
		return true
	})
	for _, series := range trends {
		sort.SliceStable(series, func(i, j int) bool { return series[i].Year < series[j].Year })
	}
	return trends
}

// DistrictKey identifies a groundwater series by normalized state and
// district. District names repeat across states, e.g. Aurangabad.
type DistrictKey struct {
	State    string
	District string
}

func districtKey(row Row) DistrictKey {
	return DistrictKey{
		State:    Normalize(row.Get(ColGroundwaterState)),
		District: Normalize(row.Get(ColGroundwaterDistrict)),
	}
}

// latestIndexes returns the index of the most recent row per district key.
// Ties on year keep the later row in table order. Rows without a parseable
// year count as year 0.
func latestIndexes(table *Table) map[DistrictKey]int {
	latest := make(map[DistrictKey]int)
	years := make(map[DistrictKey]int)
	table.Each(func(i int, row Row) bool {
		key := districtKey(row)
		if key.District == "" {
			return true
		}
		year, _ := strconv.Atoi(strings.TrimSpace(row.Get(ColGroundwaterYear)))
		if prev, ok := years[key]; ok && year < prev {
			return true
		}
		years[key] = year
		latest[key] = i
		return true
	})
	return latest
}

// LatestGroundwater returns the most recent row per (state, district).
func LatestGroundwater(table *Table) map[DistrictKey]Row {
	idx := latestIndexes(table)
	latest := make(map[DistrictKey]Row, len(idx))
	for key, i := range idx {
		latest[key] = table.Row(i)
	}
	return latest
}

// LatestGroundwaterTable keeps only the most recent row per (state,
// district), in the original table order. Assessments resolve against it so
// every district is scored on its latest reading.
func LatestGroundwaterTable(table *Table) *Table {
	idx := latestIndexes(table)
	rows := make([]Row, 0, len(idx))
	table.Each(func(i int, row Row) bool {
		if j, ok := idx[districtKey(row)]; ok && j == i {
			rows = append(rows, row)
		}
		return true
	})
	return &Table{name: table.name, columns: table.Columns(), rows: rows}
}
