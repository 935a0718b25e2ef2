package main

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/couchcryptid/rwh-feasibility-service/internal/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const svg = `<svg><path id="MP" d="M0 0 Z"/></svg>`

func goodData() fstest.MapFS {
	return fstest.MapFS{
		reference.RainfallFile: {Data: []byte("NAME,NORMAL\nBHOPAL,1200\nINDORE,950\n")},
		reference.AquiferFile: {Data: []byte("State,Dominant_Aquifer_Type\n" +
			"Madhya Pradesh,\"Basalt (majority), Alluvium (some part)\"\n")},
		"groundwater_2023.csv": {Data: []byte("District,State,Pre_Monsoon,Post_Monsoon\n" +
			"Bhopal,Madhya Pradesh,5 to 10,2 to 5\n" +
			"Indore,Madhya Pradesh,N.A.,2\n")},
	}
}

func goodMaps() fstest.MapFS {
	return fstest.MapFS{
		"INDIA.svg": {Data: []byte(svg)},
		"MP.svg":    {Data: []byte(svg)},
	}
}

func defaultTables(t *testing.T) *reference.Tables {
	t.Helper()
	tables, err := reference.DefaultTables()
	require.NoError(t, err)
	return tables
}

func TestValidate_AllPass(t *testing.T) {
	phases := validate(goodData(), goodMaps(), defaultTables(t))
	require.Len(t, phases, 5)
	for _, p := range phases {
		assert.True(t, p.passed(), "%s: %v", p.name, p.errors)
	}
	// Indore's missing pre-monsoon reading is only a warning.
	assert.Len(t, phases[2].warnings, 1)

	var out bytes.Buffer
	assert.True(t, report(&out, phases))
	assert.Contains(t, out.String(), "All validations passed.")
}

func TestValidate_LoadFailureStopsEarly(t *testing.T) {
	data := goodData()
	delete(data, reference.AquiferFile)

	phases := validate(data, goodMaps(), defaultTables(t))
	require.Len(t, phases, 1)
	assert.False(t, phases[0].passed())
}

func TestValidate_ReportsBadValues(t *testing.T) {
	data := goodData()
	data[reference.RainfallFile] = &fstest.MapFile{Data: []byte("NAME,NORMAL\nBHOPAL,lots\nBHOPAL,1200\nINDORE,-4\n")}
	data[reference.AquiferFile] = &fstest.MapFile{Data: []byte("State,Dominant_Aquifer_Type\nMadhya Pradesh,Mudstone\n")}
	data["groundwater_2023.csv"] = &fstest.MapFile{Data: []byte("District,State,Pre_Monsoon,Post_Monsoon\nBhopal,Madhya Pradesh,deep,2 to 5\n")}

	phases := validate(data, fstest.MapFS{"INDIA.svg": {Data: []byte(svg)}}, defaultTables(t))
	require.Len(t, phases, 5)

	rainfall, groundwater, aquifer, maps := phases[1], phases[2], phases[3], phases[4]
	assert.Len(t, rainfall.errors, 2)
	assert.Len(t, rainfall.warnings, 1, "duplicate BHOPAL")
	assert.Len(t, groundwater.errors, 1)
	assert.Len(t, aquifer.errors, 1)
	require.Len(t, maps.errors, 1)
	assert.Contains(t, maps.errors[0], "MP")

	var out bytes.Buffer
	assert.False(t, report(&out, phases))
	assert.Contains(t, out.String(), "Validation FAILED.")
}
