package models

import "time"

// ProjectConfig is a saved snapshot of one user's inputs and computed
// outputs. ID is the project name, unique per owner.
type ProjectConfig struct {
	ID                    string                  `json:"id"`
	SelectedBuildingTypes []string                `json:"selected_building_types"`
	CurrentBuildingType   string                  `json:"current_building_type"`
	FloorAreaSqFt         float64                 `json:"floor_area_sq_ft"`
	RangeResults          map[string]RangeResults `json:"range_results"`
	CreatedAt             time.Time               `json:"created_at"`
	UpdatedAt             time.Time               `json:"updated_at"`
}

// ProjectItem is the stored shape of a project record. The partition
// key is the owning username, the sort key the project name. Current
// records carry the full config as JSON in Config; legacy records
// carry only a raw results blob in Results and cannot be restored.
type ProjectItem struct {
	Username    string `json:"username" dynamodbav:"username"`
	ProjectName string `json:"project_name" dynamodbav:"project_name"`
	Config      string `json:"config,omitempty" dynamodbav:"config,omitempty"`
	Results     string `json:"results,omitempty" dynamodbav:"results,omitempty"`
	CreatedAt   string `json:"created_at,omitempty" dynamodbav:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty" dynamodbav:"updated_at,omitempty"`
}

// Legacy reports whether the item predates the full-config format.
func (it ProjectItem) Legacy() bool {
	return it.Config == "" && it.Results != ""
}

// LegacyResults is the payload old-format records stored: just the
// computed numbers, no input selections.
type LegacyResults struct {
	Tonnage        float64 `json:"tonnage"`
	TotalOccupancy float64 `json:"total_occupancy"`
	ElectricalKW   float64 `json:"electrical_kw"`
}

// ProjectSummary is the listing view of a record. Legacy records are
// listed with their stored numbers but flagged so clients disable load.
type ProjectSummary struct {
	Name                string     `json:"name"`
	Legacy              bool       `json:"legacy"`
	CurrentBuildingType string     `json:"current_building_type,omitempty"`
	FloorAreaSqFt       float64    `json:"floor_area_sq_ft,omitempty"`
	AvgTonnage          float64    `json:"avg_tonnage,omitempty"`
	CreatedAt           *time.Time `json:"created_at,omitempty"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`

	LegacyPreview *LegacyResults `json:"legacy_preview,omitempty"`
}
