package dto

import "github.com/fekuna/omnipos-inventory-service/internal/model"

type AlertFilters struct {
	OwnerID    string
	Type       model.AlertType
	Severity   model.AlertSeverity
	SubjectID  string
	IsRead     *bool
	IsResolved *bool
	Page       int
	PageSize   int
}

func (f *AlertFilters) Offset() int {
	if f.Page < 1 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

type SyncResult struct {
	Opened   int
	Resolved int
}

func (r *SyncResult) Add(o SyncResult) {
	r.Opened += o.Opened
	r.Resolved += o.Resolved
}
