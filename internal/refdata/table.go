// Package refdata loads the ASHRAE coefficient table the calculator
// runs against. The table is read once at startup and is immutable, so
// it is safe to share across requests.
package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"loadestimator/internal/apperrors"
	"loadestimator/internal/models"
)

type rowKey struct {
	buildingType string
	level        models.LoadLevel
}

// Table is an in-memory index of coefficient rows keyed by
// (building type, load level).
type Table struct {
	rows  map[rowKey]models.CoefficientRow
	types []string // distinct building types in file order
}

var columns = []string{
	"building_type",
	"load_level",
	"refrigeration_per_area",
	"occupancy_per_area",
	"electrical_per_area",
	"min_tons_per_area",
	"max_tons_per_area",
}

// Load reads the reference CSV from path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference data: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads coefficient rows from r. The first record must be the
// header row. Every invariant violation is a load error: the service
// refuses to start on bad reference data rather than computing from it.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	t := &Table{rows: make(map[rowKey]models.CoefficientRow)}
	seen := make(map[string]bool)

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := row.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		key := rowKey{row.BuildingType, row.LoadLevel}
		if _, dup := t.rows[key]; dup {
			return nil, fmt.Errorf("line %d: duplicate row for %q/%s", line, row.BuildingType, row.LoadLevel)
		}
		t.rows[key] = row

		if !seen[row.BuildingType] {
			seen[row.BuildingType] = true
			t.types = append(t.types, row.BuildingType)
		}
	}

	if len(t.rows) == 0 {
		return nil, fmt.Errorf("reference data contains no rows")
	}
	return t, nil
}

func checkHeader(header []string) error {
	if len(header) != len(columns) {
		return fmt.Errorf("expected %d columns, got %d", len(columns), len(header))
	}
	for i, want := range columns {
		if strings.TrimSpace(header[i]) != want {
			return fmt.Errorf("column %d: expected %q, got %q", i+1, want, header[i])
		}
	}
	return nil
}

func parseRow(rec []string) (models.CoefficientRow, error) {
	var row models.CoefficientRow
	if len(rec) != len(columns) {
		return row, fmt.Errorf("expected %d fields, got %d", len(columns), len(rec))
	}

	row.BuildingType = strings.TrimSpace(rec[0])

	level, err := models.ParseLoadLevel(strings.TrimSpace(rec[1]))
	if err != nil {
		return row, err
	}
	row.LoadLevel = level

	nums := []*float64{
		&row.RefrigerationPerArea,
		&row.OccupancyPerArea,
		&row.ElectricalPerArea,
		&row.MinTonsPerArea,
		&row.MaxTonsPerArea,
	}
	for i, dst := range nums {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+2]), 64)
		if err != nil {
			return row, fmt.Errorf("%s: %w", columns[i+2], err)
		}
		*dst = v
	}
	return row, nil
}

// Lookup returns the row for (buildingType, level). A miss is a
// data-integrity condition, surfaced to the caller.
func (t *Table) Lookup(buildingType string, level models.LoadLevel) (models.CoefficientRow, error) {
	row, ok := t.rows[rowKey{buildingType, level}]
	if !ok {
		return models.CoefficientRow{}, apperrors.DataIntegrity(
			fmt.Sprintf("%s/%s", buildingType, level))
	}
	return row, nil
}

// BuildingTypes returns the distinct building types in file order.
func (t *Table) BuildingTypes() []string {
	out := make([]string, len(t.types))
	copy(out, t.types)
	return out
}

// Rows returns all coefficient rows, grouped by building type in file
// order with load levels Low/Average/High inside each group.
func (t *Table) Rows() []models.CoefficientRow {
	out := make([]models.CoefficientRow, 0, len(t.rows))
	for _, bt := range t.types {
		for _, level := range models.LoadLevels {
			if row, ok := t.rows[rowKey{bt, level}]; ok {
				out = append(out, row)
			}
		}
	}
	return out
}

// Len reports the number of coefficient rows.
func (t *Table) Len() int { return len(t.rows) }
