// Package store persists project records in a key-value layout:
// partition key = username, sort key = project name.
package store

import (
	"context"

	"loadestimator/internal/models"
)

// ProjectStore is the persistence contract. Operations are synchronous
// request/response calls; failures surface to the caller and are not
// retried here.
type ProjectStore interface {
	// Put creates or replaces the record.
	Put(ctx context.Context, item models.ProjectItem) error

	// Get returns one record, or a NOT_FOUND app error.
	Get(ctx context.Context, username, projectName string) (models.ProjectItem, error)

	// List returns every record owned by the user.
	List(ctx context.Context, username string) ([]models.ProjectItem, error)

	// Delete removes the record. Deleting a missing record is not an
	// error; the store is idempotent here.
	Delete(ctx context.Context, username, projectName string) error
}
