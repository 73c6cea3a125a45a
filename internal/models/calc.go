package models

// DesignParams are the inputs to a single calculation. Transient,
// constructed per request.
type DesignParams struct {
	BuildingType  string    `json:"building_type"`
	LoadLevel     LoadLevel `json:"load_level"`
	FloorAreaSqFt float64   `json:"floor_area_sq_ft"`
}

// Result holds the computed loads for one (building type, load level,
// area) triple. Immutable once computed.
type Result struct {
	RefrigerationTons float64 `json:"refrigeration_tons"`
	OccupancyCount    int     `json:"occupancy_count"`
	ElectricalKW      float64 `json:"electrical_kw"`
	TonsPerSqFt       float64 `json:"tons_per_sq_ft"`

	// OutOfBounds is set when TonsPerSqFt falls outside the row's
	// [min, max] range. A warning for display, not a failure.
	OutOfBounds bool `json:"out_of_bounds"`

	// Rates echoes the coefficient row the result was derived from, so
	// reports can show the design rates next to the outputs.
	Rates CoefficientRow `json:"rates"`
}

// RangeResults aggregates the three load levels for one building type.
type RangeResults struct {
	BuildingType  string  `json:"building_type"`
	FloorAreaSqFt float64 `json:"floor_area_sq_ft"`
	Low           Result  `json:"low"`
	Average       Result  `json:"average"`
	High          Result  `json:"high"`
}

// Comparison holds independent per-type range results for comparison
// mode. Types whose coefficient rows are missing land in Skipped
// instead of failing the whole comparison.
type Comparison struct {
	FloorAreaSqFt float64                 `json:"floor_area_sq_ft"`
	Results       map[string]RangeResults `json:"results"`
	Skipped       map[string]string       `json:"skipped,omitempty"`
}
