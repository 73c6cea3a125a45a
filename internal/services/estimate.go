package services

import (
	"loadestimator/internal/calc"
	"loadestimator/internal/models"
	"loadestimator/internal/refdata"
)

// EstimateService exposes the calculator over the loaded reference
// table. The table is immutable, so the service is stateless and safe
// for concurrent use.
type EstimateService struct {
	table *refdata.Table
}

func NewEstimateService(table *refdata.Table) *EstimateService {
	return &EstimateService{table: table}
}

// Estimate computes Low/Average/High results for one building type.
func (s *EstimateService) Estimate(buildingType string, area float64) (models.RangeResults, error) {
	return calc.ComputeRange(s.table, buildingType, area)
}

// Compare computes independent range results for several building types.
func (s *EstimateService) Compare(buildingTypes []string, area float64) (models.Comparison, error) {
	return calc.Compare(s.table, buildingTypes, area)
}

// BuildingTypes lists the types present in the reference data.
func (s *EstimateService) BuildingTypes() []string {
	return s.table.BuildingTypes()
}

// Rows returns the full coefficient table.
func (s *EstimateService) Rows() []models.CoefficientRow {
	return s.table.Rows()
}
