package depot

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/depot/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type UseCase interface {
	CreateDepot(ctx context.Context, input *dto.CreateDepotInput) (*model.Depot, error)
	GetDepot(ctx context.Context, ownerID, id string) (*model.Depot, error)
	ListDepots(ctx context.Context, filters *dto.DepotFilters) ([]model.Depot, int, error)
	UpdateDepot(ctx context.Context, input *dto.UpdateDepotInput) (*model.Depot, error)
	DeleteDepot(ctx context.Context, ownerID, id string) error
}
