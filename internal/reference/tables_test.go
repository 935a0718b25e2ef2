package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTables(t *testing.T) {
	tables, err := DefaultTables()
	require.NoError(t, err)

	assert.Equal(t, "#08306b", tables.Palettes.Rainfall["LE"])
	assert.Equal(t, "#e31a1c", tables.Palettes.PreMonsoon[">40"])
	assert.Equal(t, "#00441b", tables.Palettes.PostMonsoon["0 to 2"])
	assert.Len(t, tables.AquiferClasses, 6)
}

func TestTables_StateCode(t *testing.T) {
	tables, err := DefaultTables()
	require.NoError(t, err)

	code, ok := tables.StateCode(" madhya pradesh ")
	assert.True(t, ok)
	assert.Equal(t, "MP", code)

	code, ok = tables.StateCode("Jammu & Kashmir")
	assert.True(t, ok)
	assert.Equal(t, "JK", code)

	code, ok = tables.StateCode("Lakshadweep")
	assert.False(t, ok)
	assert.Equal(t, "LA", code)
}

func TestTables_AquiferClass(t *testing.T) {
	tables, err := DefaultTables()
	require.NoError(t, err)

	assert.Equal(t, "ALLUVIUM", tables.AquiferClass("Basalt (majority), Alluvium (some part)").Name)
	assert.Equal(t, "BASALT", tables.AquiferClass("Basalt (majority)").Name)
	assert.Equal(t, "#FFADAD", tables.AquiferClass("banded crystalline").Color)
	assert.Equal(t, AquiferOther, tables.AquiferClass("Granite, Gneiss").Name)
}

func TestParseTables_Invalid(t *testing.T) {
	_, err := ParseTables([]byte("state_codes: {}\n"))
	require.Error(t, err)

	_, err = ParseTables([]byte("state_codes:\n  GOA: GA\naquifer_classes:\n  - name: ALLUVIUM\n    color: \"#fff\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), AquiferOther)

	_, err = ParseTables([]byte("state_codes: [\n"))
	require.Error(t, err)
}
