package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"loadestimator/internal/apperrors"
	"loadestimator/internal/models"
	"loadestimator/internal/store"
)

// ProjectService owns the project record lifecycle: save, load, list,
// and the two-step delete gate.
type ProjectService struct {
	store store.ProjectStore
	logr  *zap.Logger

	mu      sync.Mutex
	pending map[string]string // username/project -> confirm token
}

func NewProjectService(st store.ProjectStore, logr *zap.Logger) *ProjectService {
	return &ProjectService{
		store:   st,
		logr:    logr,
		pending: make(map[string]string),
	}
}

// Save persists the config under the authenticated user. Re-saving an
// existing project preserves its creation timestamp and bumps only
// updated_at.
func (s *ProjectService) Save(ctx context.Context, username string, cfg models.ProjectConfig) (models.ProjectConfig, error) {
	if cfg.ID == "" {
		return models.ProjectConfig{}, apperrors.InvalidInput("project name is required")
	}
	if cfg.FloorAreaSqFt <= 0 {
		return models.ProjectConfig{}, apperrors.InvalidInput("floor area must be positive")
	}
	if cfg.CurrentBuildingType == "" {
		return models.ProjectConfig{}, apperrors.InvalidInput("building type is required")
	}

	now := time.Now().UTC()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now

	// Preserve created_at across re-saves. A lookup failure here is not
	// fatal: the record is then treated as new.
	existing, err := s.store.Get(ctx, username, cfg.ID)
	switch {
	case err == nil && existing.Config != "":
		var prev models.ProjectConfig
		if jsonErr := json.Unmarshal([]byte(existing.Config), &prev); jsonErr == nil && !prev.CreatedAt.IsZero() {
			cfg.CreatedAt = prev.CreatedAt
		}
	case err != nil && !apperrors.IsCode(err, apperrors.CodeNotFound):
		s.logr.Warn("could not check for existing project, treating as new",
			zap.String("project", cfg.ID), zap.Error(err))
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return models.ProjectConfig{}, apperrors.PersistenceFailure(err)
	}

	item := models.ProjectItem{
		Username:    username,
		ProjectName: cfg.ID,
		Config:      string(raw),
		CreatedAt:   cfg.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   cfg.UpdatedAt.Format(time.RFC3339),
	}
	if err := s.store.Put(ctx, item); err != nil {
		return models.ProjectConfig{}, err
	}
	return cfg, nil
}

// Load restores a saved config. Legacy records are listed elsewhere but
// a load attempt on them is rejected outright, never partially
// populating the caller's form.
func (s *ProjectService) Load(ctx context.Context, username, projectName string) (models.ProjectConfig, error) {
	item, err := s.store.Get(ctx, username, projectName)
	if err != nil {
		return models.ProjectConfig{}, err
	}
	if item.Legacy() || item.Config == "" {
		return models.ProjectConfig{}, apperrors.LegacyProject(projectName)
	}

	var cfg models.ProjectConfig
	if err := json.Unmarshal([]byte(item.Config), &cfg); err != nil {
		return models.ProjectConfig{}, apperrors.DataIntegrity("unparseable project config: " + projectName)
	}
	cfg.ID = projectName
	return cfg, nil
}

// List returns summaries for every record the user owns, legacy ones
// included.
func (s *ProjectService) List(ctx context.Context, username string) ([]models.ProjectSummary, error) {
	items, err := s.store.List(ctx, username)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ProjectSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, summarize(item))
	}
	return summaries, nil
}

func summarize(item models.ProjectItem) models.ProjectSummary {
	sum := models.ProjectSummary{Name: item.ProjectName}
	if t, err := time.Parse(time.RFC3339, item.CreatedAt); err == nil {
		sum.CreatedAt = &t
	}
	if t, err := time.Parse(time.RFC3339, item.UpdatedAt); err == nil {
		sum.UpdatedAt = &t
	}

	if item.Legacy() {
		sum.Legacy = true
		var legacy models.LegacyResults
		if err := json.Unmarshal([]byte(item.Results), &legacy); err == nil {
			sum.LegacyPreview = &legacy
		}
		return sum
	}

	var cfg models.ProjectConfig
	if err := json.Unmarshal([]byte(item.Config), &cfg); err != nil {
		// neither parseable config nor legacy results; list the name only
		return sum
	}
	sum.CurrentBuildingType = cfg.CurrentBuildingType
	sum.FloorAreaSqFt = cfg.FloorAreaSqFt
	if rr, ok := cfg.RangeResults[cfg.CurrentBuildingType]; ok {
		sum.AvgTonnage = rr.Average.RefrigerationTons
	}
	return sum
}

// RequestDelete starts the two-step delete gate. The record must exist;
// the returned token must accompany the actual delete. A repeated
// request replaces any earlier pending token for the same record.
func (s *ProjectService) RequestDelete(ctx context.Context, username, projectName string) (string, error) {
	if _, err := s.store.Get(ctx, username, projectName); err != nil {
		return "", err
	}

	token := uuid.New().String()
	s.mu.Lock()
	s.pending[pendingKey(username, projectName)] = token
	s.mu.Unlock()
	return token, nil
}

// ConfirmDelete completes the gate. The token must match the pending
// request for this exact (user, project) pair.
func (s *ProjectService) ConfirmDelete(ctx context.Context, username, projectName, token string) error {
	key := pendingKey(username, projectName)

	s.mu.Lock()
	want, ok := s.pending[key]
	s.mu.Unlock()

	if !ok || token == "" || token != want {
		return apperrors.ConfirmationRequired("no matching delete request for " + projectName)
	}

	if err := s.store.Delete(ctx, username, projectName); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.pending, key)
	s.mu.Unlock()

	s.logr.Info("project deleted",
		zap.String("username", username), zap.String("project", projectName))
	return nil
}

// CancelDelete discards a pending delete request. The record is left
// unchanged and retrievable.
func (s *ProjectService) CancelDelete(username, projectName string) {
	s.mu.Lock()
	delete(s.pending, pendingKey(username, projectName))
	s.mu.Unlock()
}

func pendingKey(username, projectName string) string {
	return username + "/" + projectName
}
