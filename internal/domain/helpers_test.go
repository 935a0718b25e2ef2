package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T, name string, columns []string, records ...[]string) *Table {
	t.Helper()
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		require.Len(t, rec, len(columns), "record width")
		values := make(map[string]string, len(columns))
		for i, col := range columns {
			values[col] = rec[i]
		}
		rows = append(rows, NewRow(values))
	}
	table, err := NewTable(name, columns, rows)
	require.NoError(t, err)
	return table
}

func rainfallTable(t *testing.T, records ...[]string) *Table {
	t.Helper()
	return mustTable(t, DatasetRainfall, RequiredColumns[DatasetRainfall], records...)
}

func aquiferTable(t *testing.T, records ...[]string) *Table {
	t.Helper()
	return mustTable(t, DatasetAquifer, RequiredColumns[DatasetAquifer], records...)
}

func groundwaterTable(t *testing.T, records ...[]string) *Table {
	t.Helper()
	return mustTable(t, DatasetGroundwater, RequiredColumns[DatasetGroundwater], records...)
}

// testIndex holds a small slice of Madhya Pradesh, Rajasthan, Mizoram and Delhi.
func testIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := NewIndex(
		rainfallTable(t,
			[]string{"BHOPAL", "1200"},
			[]string{"INDORE", "950"},
			[]string{"MADHYA PRADESH", "1017"},
			[]string{"BARMER", "300"},
			[]string{"NEW DELHI", "790"},
			[]string{"MIZORAM", "2500"},
		),
		aquiferTable(t,
			[]string{"Madhya Pradesh", "Basalt (majority), Alluvium (some part)"},
			[]string{"Rajasthan", "Alluvium, Sandstone"},
			[]string{"Mizoram", "Mudstone (majority)"},
		),
		groundwaterTable(t,
			[]string{"Bhopal", "Madhya Pradesh", "2022", "10 to 20", "5 to 10"},
			[]string{"Bhopal", "Madhya Pradesh", "2023", "5 to 10", "2 to 5"},
			[]string{"Indore", "Madhya Pradesh", "2023", "N.A.", "2"},
			[]string{"Barmer", "Rajasthan", "2023", ">40", "20 to 40"},
			[]string{"Aizawl", "Mizoram", "2023", "5 to 10", "2 to 5"},
		),
	)
	require.NoError(t, err)
	return ix
}
