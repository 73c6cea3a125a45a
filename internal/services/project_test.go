package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"loadestimator/internal/apperrors"
	"loadestimator/internal/models"
	"loadestimator/internal/store"
)

func newProjectService() (*ProjectService, *store.MemoryStore) {
	st := store.NewMemoryStore()
	return NewProjectService(st, zap.NewNop()), st
}

func sampleConfig(name string) models.ProjectConfig {
	rr := models.RangeResults{
		BuildingType:  "Office Buildings (General)",
		FloorAreaSqFt: 7500,
		Low:           models.Result{RefrigerationTons: 17.5, OccupancyCount: 30, ElectricalKW: 9.0},
		Average:       models.Result{RefrigerationTons: 21.25, OccupancyCount: 38, ElectricalKW: 13.5},
		High:          models.Result{RefrigerationTons: 26.25, OccupancyCount: 50, ElectricalKW: 18.75},
	}
	return models.ProjectConfig{
		ID:                    name,
		SelectedBuildingTypes: []string{"Office Buildings (General)", "Retail Stores"},
		CurrentBuildingType:   "Office Buildings (General)",
		FloorAreaSqFt:         7500,
		RangeResults: map[string]models.RangeResults{
			"Office Buildings (General)": rr,
		},
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	svc, _ := newProjectService()
	ctx := context.Background()

	saved, err := svc.Save(ctx, "alice", sampleConfig("hq-retrofit"))
	require.NoError(t, err)

	loaded, err := svc.Load(ctx, "alice", "hq-retrofit")
	require.NoError(t, err)

	assert.Equal(t, saved.SelectedBuildingTypes, loaded.SelectedBuildingTypes)
	assert.Equal(t, saved.CurrentBuildingType, loaded.CurrentBuildingType)
	assert.InDelta(t, saved.FloorAreaSqFt, loaded.FloorAreaSqFt, 0)
	assert.Equal(t, saved.RangeResults, loaded.RangeResults)
	assert.True(t, saved.CreatedAt.Equal(loaded.CreatedAt))
}

func TestResavePreservesCreatedAt(t *testing.T) {
	svc, _ := newProjectService()
	ctx := context.Background()

	first, err := svc.Save(ctx, "alice", sampleConfig("hq-retrofit"))
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	update := sampleConfig("hq-retrofit")
	update.FloorAreaSqFt = 9000
	second, err := svc.Save(ctx, "alice", update)
	require.NoError(t, err)

	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestSaveValidation(t *testing.T) {
	svc, _ := newProjectService()
	ctx := context.Background()

	noName := sampleConfig("")
	_, err := svc.Save(ctx, "alice", noName)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	badArea := sampleConfig("p")
	badArea.FloorAreaSqFt = 0
	_, err = svc.Save(ctx, "alice", badArea)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestProjectsAreOwnerScoped(t *testing.T) {
	svc, _ := newProjectService()
	ctx := context.Background()

	_, err := svc.Save(ctx, "alice", sampleConfig("hq-retrofit"))
	require.NoError(t, err)

	_, err = svc.Load(ctx, "bob", "hq-retrofit")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	svc, _ := newProjectService()
	ctx := context.Background()

	_, err := svc.Save(ctx, "alice", sampleConfig("hq-retrofit"))
	require.NoError(t, err)

	// deleting without a pending request is rejected
	err = svc.ConfirmDelete(ctx, "alice", "hq-retrofit", "made-up-token")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConfirmationRequired))

	token, err := svc.RequestDelete(ctx, "alice", "hq-retrofit")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// a wrong token does not delete
	err = svc.ConfirmDelete(ctx, "alice", "hq-retrofit", "wrong")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConfirmationRequired))
	_, err = svc.Load(ctx, "alice", "hq-retrofit")
	assert.NoError(t, err)

	require.NoError(t, svc.ConfirmDelete(ctx, "alice", "hq-retrofit", token))
	_, err = svc.Load(ctx, "alice", "hq-retrofit")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestCancelledDeleteLeavesRecord(t *testing.T) {
	svc, _ := newProjectService()
	ctx := context.Background()

	_, err := svc.Save(ctx, "alice", sampleConfig("hq-retrofit"))
	require.NoError(t, err)

	token, err := svc.RequestDelete(ctx, "alice", "hq-retrofit")
	require.NoError(t, err)

	svc.CancelDelete("alice", "hq-retrofit")

	// token is dead after cancel, record still retrievable
	err = svc.ConfirmDelete(ctx, "alice", "hq-retrofit", token)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConfirmationRequired))
	_, err = svc.Load(ctx, "alice", "hq-retrofit")
	assert.NoError(t, err)
}

func TestDeleteRequestNeedsExistingRecord(t *testing.T) {
	svc, _ := newProjectService()

	_, err := svc.RequestDelete(context.Background(), "alice", "nope")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestLegacyRecordsListedButNotLoaded(t *testing.T) {
	svc, st := newProjectService()
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, models.ProjectItem{
		Username:    "alice",
		ProjectName: "old-survey",
		Results:     `{"tonnage": 12.5, "total_occupancy": 40, "electrical_kw": 18.0}`,
		CreatedAt:   "2021-03-04T10:00:00Z",
	}))
	_, err := svc.Save(ctx, "alice", sampleConfig("hq-retrofit"))
	require.NoError(t, err)

	summaries, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byName := map[string]models.ProjectSummary{}
	for _, s := range summaries {
		byName[s.Name] = s
	}

	legacy := byName["old-survey"]
	assert.True(t, legacy.Legacy)
	require.NotNil(t, legacy.LegacyPreview)
	assert.InDelta(t, 12.5, legacy.LegacyPreview.Tonnage, 0)

	current := byName["hq-retrofit"]
	assert.False(t, current.Legacy)
	assert.InDelta(t, 21.25, current.AvgTonnage, 0)

	// load attempt on the legacy record is rejected, not partially applied
	_, err = svc.Load(ctx, "alice", "old-survey")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeLegacyProject))
}
