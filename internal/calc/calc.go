// Package calc implements the load calculator and range aggregator.
// Pure functions over the reference table: identical inputs always
// produce identical outputs.
package calc

import (
	"fmt"
	"math"

	"loadestimator/internal/apperrors"
	"loadestimator/internal/models"
	"loadestimator/internal/refdata"
)

// TonsDivisor converts the per-area refrigeration coefficient to tons;
// the coefficient is expressed per the 12000-sqft-ton convention.
const TonsDivisor = 12000.0

// Compute maps DesignParams to a Result using the matching coefficient
// row. The area is validated before lookup; a missing row is a
// data-integrity error, never silently defaulted.
func Compute(table *refdata.Table, p models.DesignParams) (models.Result, error) {
	if p.FloorAreaSqFt <= 0 {
		return models.Result{}, apperrors.InvalidInput(
			fmt.Sprintf("floor area must be positive, got %v", p.FloorAreaSqFt))
	}
	if p.BuildingType == "" {
		return models.Result{}, apperrors.InvalidInput("building type is required")
	}

	row, err := table.Lookup(p.BuildingType, p.LoadLevel)
	if err != nil {
		return models.Result{}, err
	}

	tons := row.RefrigerationPerArea * p.FloorAreaSqFt / TonsDivisor
	occupants := int(math.Round(row.OccupancyPerArea * p.FloorAreaSqFt))
	kw := row.ElectricalPerArea * p.FloorAreaSqFt / 1000.0
	tonsPerSqFt := tons / p.FloorAreaSqFt

	return models.Result{
		RefrigerationTons: tons,
		OccupancyCount:    occupants,
		ElectricalKW:      kw,
		TonsPerSqFt:       tonsPerSqFt,
		OutOfBounds:       tonsPerSqFt < row.MinTonsPerArea || tonsPerSqFt > row.MaxTonsPerArea,
		Rates:             row,
	}, nil
}

// ComputeRange invokes Compute once per load level for one building
// type and packages the three results.
func ComputeRange(table *refdata.Table, buildingType string, area float64) (models.RangeResults, error) {
	rr := models.RangeResults{
		BuildingType:  buildingType,
		FloorAreaSqFt: area,
	}

	for _, level := range models.LoadLevels {
		res, err := Compute(table, models.DesignParams{
			BuildingType:  buildingType,
			LoadLevel:     level,
			FloorAreaSqFt: area,
		})
		if err != nil {
			return models.RangeResults{}, err
		}
		switch level {
		case models.LoadLow:
			rr.Low = res
		case models.LoadAverage:
			rr.Average = res
		case models.LoadHigh:
			rr.High = res
		}
	}
	return rr, nil
}

// Compare computes range results independently per building type. Types
// with missing coefficient rows are recorded in Skipped; they do not
// fail the comparison for the rest. Invalid area fails everything up
// front since no type could succeed.
func Compare(table *refdata.Table, buildingTypes []string, area float64) (models.Comparison, error) {
	if area <= 0 {
		return models.Comparison{}, apperrors.InvalidInput(
			fmt.Sprintf("floor area must be positive, got %v", area))
	}
	if len(buildingTypes) == 0 {
		return models.Comparison{}, apperrors.InvalidInput("at least one building type is required")
	}

	cmp := models.Comparison{
		FloorAreaSqFt: area,
		Results:       make(map[string]models.RangeResults, len(buildingTypes)),
	}
	for _, bt := range buildingTypes {
		rr, err := ComputeRange(table, bt, area)
		if err != nil {
			if cmp.Skipped == nil {
				cmp.Skipped = make(map[string]string)
			}
			cmp.Skipped[bt] = err.Error()
			continue
		}
		cmp.Results[bt] = rr
	}
	return cmp, nil
}
