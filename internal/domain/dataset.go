package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Dataset names held by the reference index.
const (
	DatasetRainfall    = "rainfall"
	DatasetAquifer     = "aquifer"
	DatasetGroundwater = "groundwater"
)

// Column names as published in the source CSVs.
const (
	ColRainfallName   = "NAME"
	ColRainfallNormal = "NORMAL"

	ColAquiferState = "State"
	ColAquiferType  = "Dominant_Aquifer_Type"

	ColGroundwaterDistrict = "District"
	ColGroundwaterState    = "State"
	ColGroundwaterYear     = "Year"
	ColGroundwaterPre      = "Pre_Monsoon"
	ColGroundwaterPost     = "Post_Monsoon"
)

// RequiredColumns lists the columns each dataset must carry.
var RequiredColumns = map[string][]string{
	DatasetRainfall:    {ColRainfallName, ColRainfallNormal},
	DatasetAquifer:     {ColAquiferState, ColAquiferType},
	DatasetGroundwater: {ColGroundwaterDistrict, ColGroundwaterState, ColGroundwaterYear, ColGroundwaterPre, ColGroundwaterPost},
}

// ErrDatasetNotFound is returned when the index holds no table with the requested name.
var ErrDatasetNotFound = errors.New("dataset not found")

// Row is one immutable reference record keyed by column name.
type Row struct {
	values map[string]string
}

// NewRow copies values into a new Row.
func NewRow(values map[string]string) Row {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return Row{values: cp}
}

// Get returns the raw value stored for column, or "" if absent.
func (r Row) Get(column string) string {
	return r.values[column]
}

// Lookup returns the raw value stored for column and whether it exists.
func (r Row) Lookup(column string) (string, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Table is a named, read-only collection of rows.
type Table struct {
	name    string
	columns []string
	rows    []Row
}

// NewTable builds a table and verifies that every row carries every column.
func NewTable(name string, columns []string, rows []Row) (*Table, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("table name is required")
	}
	for i, row := range rows {
		for _, col := range columns {
			if _, ok := row.Lookup(col); !ok {
				return nil, fmt.Errorf("table %s: row %d missing column %q", name, i, col)
			}
		}
	}
	return &Table{
		name:    name,
		columns: append([]string(nil), columns...),
		rows:    append([]Row(nil), rows...),
	}, nil
}

// Name returns the dataset name.
func (t *Table) Name() string { return t.name }

// Columns returns a copy of the column list.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the i-th row.
func (t *Table) Row(i int) Row { return t.rows[i] }

// Each calls fn for every row in order until fn returns false.
func (t *Table) Each(fn func(i int, row Row) bool) {
	for i, row := range t.rows {
		if !fn(i, row) {
			return
		}
	}
}

// Index holds every reference table for the process lifetime. It has no
// mutation API and is safe for concurrent use.
type Index struct {
	tables map[string]*Table
}

// NewIndex builds an index from tables. Duplicate names are rejected.
func NewIndex(tables ...*Table) (*Index, error) {
	ix := &Index{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		if t == nil {
			return nil, errors.New("nil table")
		}
		if _, dup := ix.tables[t.name]; dup {
			return nil, fmt.Errorf("duplicate table %q", t.name)
		}
		ix.tables[t.name] = t
	}
	return ix, nil
}

// Table returns the named table or ErrDatasetNotFound.
func (ix *Index) Table(name string) (*Table, error) {
	t, ok := ix.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	return t, nil
}

// Normalize trims surrounding whitespace and upper-cases s. All name
// comparisons go through it.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
