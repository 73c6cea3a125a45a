package models

import "fmt"

// LoadLevel is the scenario intensity used to pick coefficients.
type LoadLevel string

const (
	LoadLow     LoadLevel = "Low"
	LoadAverage LoadLevel = "Average"
	LoadHigh    LoadLevel = "High"
)

// LoadLevels in display order.
var LoadLevels = []LoadLevel{LoadLow, LoadAverage, LoadHigh}

// ParseLoadLevel accepts the canonical names plus the "Avg" shorthand
// found in older data exports.
func ParseLoadLevel(s string) (LoadLevel, error) {
	switch s {
	case "Low":
		return LoadLow, nil
	case "Average", "Avg":
		return LoadAverage, nil
	case "High":
		return LoadHigh, nil
	}
	return "", fmt.Errorf("unknown load level %q", s)
}

// CoefficientRow is one reference record mapping a (building type, load
// level) pair to per-area load rates and valid tonnage-density bounds.
type CoefficientRow struct {
	BuildingType         string    `json:"building_type"`
	LoadLevel            LoadLevel `json:"load_level"`
	RefrigerationPerArea float64   `json:"refrigeration_per_area"`
	OccupancyPerArea     float64   `json:"occupancy_per_area"`
	ElectricalPerArea    float64   `json:"electrical_per_area"`
	MinTonsPerArea       float64   `json:"min_tons_per_area"`
	MaxTonsPerArea       float64   `json:"max_tons_per_area"`
}

// Validate checks the row invariants: non-empty type, non-negative
// numeric fields, min <= max.
func (r CoefficientRow) Validate() error {
	if r.BuildingType == "" {
		return fmt.Errorf("building type is required")
	}
	for name, v := range map[string]float64{
		"refrigeration_per_area": r.RefrigerationPerArea,
		"occupancy_per_area":     r.OccupancyPerArea,
		"electrical_per_area":    r.ElectricalPerArea,
		"min_tons_per_area":      r.MinTonsPerArea,
		"max_tons_per_area":      r.MaxTonsPerArea,
	} {
		if v < 0 {
			return fmt.Errorf("%s must be non-negative, got %v", name, v)
		}
	}
	if r.MinTonsPerArea > r.MaxTonsPerArea {
		return fmt.Errorf("min_tons_per_area %v exceeds max_tons_per_area %v",
			r.MinTonsPerArea, r.MaxTonsPerArea)
	}
	return nil
}
