package alert

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/alert/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Repository interface {
	// Create inserts an alert. A second open alert for the same subject and type
	// fails with apperror.ErrConflict.
	Create(ctx context.Context, alert *model.Alert) error
	// FindOpen lists unresolved alerts about one product or depot.
	FindOpen(ctx context.Context, ownerID, subjectID string) ([]model.Alert, error)
	FindByID(ctx context.Context, ownerID, id string) (*model.Alert, error)
	FindAll(ctx context.Context, filters *dto.AlertFilters) ([]model.Alert, int, error)
	MarkRead(ctx context.Context, ownerID, id string) error
	// Resolve closes an open alert; resolving an already resolved alert is a no-op
	// reported as false.
	Resolve(ctx context.Context, ownerID, id, by string, notes *string, at time.Time) (bool, error)
}
