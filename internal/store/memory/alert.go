package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/alert/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type AlertRepository struct {
	s *Store
}

func cloneAlert(a *model.Alert) model.Alert {
	cp := *a
	if a.ProductID != nil {
		v := *a.ProductID
		cp.ProductID = &v
	}
	if a.DepotID != nil {
		v := *a.DepotID
		cp.DepotID = &v
	}
	if a.ResolvedAt != nil {
		v := *a.ResolvedAt
		cp.ResolvedAt = &v
	}
	if a.ResolvedBy != nil {
		v := *a.ResolvedBy
		cp.ResolvedBy = &v
	}
	if a.ResolutionNotes != nil {
		v := *a.ResolutionNotes
		cp.ResolutionNotes = &v
	}
	return cp
}

func (r *AlertRepository) find(ownerID, id string) *model.Alert {
	for _, a := range r.s.alerts {
		if a.ID == id && a.OwnerID == ownerID {
			return a
		}
	}
	return nil
}

func (r *AlertRepository) Create(_ context.Context, a *model.Alert) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.alerts {
		if other.OwnerID == a.OwnerID && !other.IsResolved && other.Type == a.Type && other.SubjectID() == a.SubjectID() {
			return apperror.ErrConflict
		}
	}
	cp := cloneAlert(a)
	r.s.alerts = append(r.s.alerts, &cp)
	return nil
}

func (r *AlertRepository) FindOpen(_ context.Context, ownerID, subjectID string) ([]model.Alert, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Alert
	for _, a := range r.s.alerts {
		if a.OwnerID == ownerID && !a.IsResolved && a.SubjectID() == subjectID {
			out = append(out, cloneAlert(a))
		}
	}
	return out, nil
}

func (r *AlertRepository) FindByID(_ context.Context, ownerID, id string) (*model.Alert, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a := r.find(ownerID, id)
	if a == nil {
		return nil, nil
	}
	cp := cloneAlert(a)
	return &cp, nil
}

func (r *AlertRepository) FindAll(_ context.Context, f *dto.AlertFilters) ([]model.Alert, int, error) {
	r.s.mu.RLock()
	var out []model.Alert
	for _, a := range r.s.alerts {
		if a.OwnerID != f.OwnerID {
			continue
		}
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		if f.Severity != "" && a.Severity != f.Severity {
			continue
		}
		if f.SubjectID != "" && a.SubjectID() != f.SubjectID {
			continue
		}
		if f.IsRead != nil && a.IsRead != *f.IsRead {
			continue
		}
		if f.IsResolved != nil && a.IsResolved != *f.IsResolved {
			continue
		}
		out = append(out, cloneAlert(a))
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, f.Offset(), f.PageSize), len(out), nil
}

func (r *AlertRepository) MarkRead(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a := r.find(ownerID, id); a != nil {
		a.IsRead = true
	}
	return nil
}

func (r *AlertRepository) Resolve(_ context.Context, ownerID, id, by string, notes *string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a := r.find(ownerID, id)
	if a == nil || a.IsResolved {
		return false, nil
	}
	a.IsResolved = true
	a.ResolvedAt = &at
	a.ResolvedBy = &by
	if notes != nil {
		n := *notes
		a.ResolutionNotes = &n
	}
	return true, nil
}
