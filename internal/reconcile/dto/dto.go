package dto

import (
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
)

type Report struct {
	OwnerID         string                          `json:"owner_id"`
	DepotsTouched   int                             `json:"depots_touched"`
	LinksSynced     int                             `json:"links_synced"`
	ProductsUpdated int                             `json:"products_updated"`
	DepotsUpdated   int                             `json:"depots_updated"`
	AlertsOpened    int                             `json:"alerts_opened"`
	AlertsResolved  int                             `json:"alerts_resolved"`
	Violations      []apperror.ConsistencyViolation `json:"violations"`
	Errors          []string                        `json:"errors"`
	StartedAt       time.Time                       `json:"started_at"`
	FinishedAt      time.Time                       `json:"finished_at"`
}
