// Package memory is a process-local implementation of every repository. Products
// and depots keep their embedded projections of the stock relation and both are
// maintained through the ledger functions on every write.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/fekuna/omnipos-inventory-service/internal/ledger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Store struct {
	mu           sync.RWMutex
	products     map[string]*model.Product
	depots       map[string]*model.Depot
	transactions []model.Transaction
	alerts       []*model.Alert
}

func New() *Store {
	return &Store{
		products: make(map[string]*model.Product),
		depots:   make(map[string]*model.Depot),
	}
}

func (s *Store) Products() *ProductRepository         { return &ProductRepository{s: s} }
func (s *Store) Depots() *DepotRepository             { return &DepotRepository{s: s} }
func (s *Store) Transactions() *TransactionRepository { return &TransactionRepository{s: s} }
func (s *Store) Alerts() *AlertRepository             { return &AlertRepository{s: s} }
func (s *Store) Reconcile() *ReconcileRepository      { return &ReconcileRepository{s: s} }
func (s *Store) Dashboard() *DashboardRepository      { return &DashboardRepository{s: s} }

// Seed stores records exactly as given, without deriving anything. Used to load
// fixtures, including inconsistent ones that reconciliation should repair.
func (s *Store) Seed(products []model.Product, depots []model.Depot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range products {
		s.products[products[i].ID] = products[i].Clone()
	}
	for i := range depots {
		s.depots[depots[i].ID] = depots[i].Clone()
	}
}

func (s *Store) product(ownerID, id string) *model.Product {
	p, ok := s.products[id]
	if !ok || p.OwnerID != ownerID {
		return nil
	}
	return p
}

func (s *Store) depot(ownerID, id string) *model.Depot {
	d, ok := s.depots[id]
	if !ok || d.OwnerID != ownerID {
		return nil
	}
	return d
}

// applyEntry writes one relation tuple into both projections.
func (s *Store) applyEntry(p *model.Product, e model.DepotStock) {
	_, idx := p.DistributionFor(e.DepotID)
	switch {
	case idx < 0 && e.Quantity > 0:
		p.DepotDistribution = append(p.DepotDistribution, e)
	case idx >= 0 && e.Quantity == 0:
		p.DepotDistribution = append(p.DepotDistribution[:idx:idx], p.DepotDistribution[idx+1:]...)
	case idx >= 0:
		p.DepotDistribution[idx] = e
	}
	ledger.Recompute(p)

	if d := s.depot(p.OwnerID, e.DepotID); d != nil {
		ledger.UpsertProductEntry(d, e)
		sortByProduct(d.Products)
	}
}

func sortByProduct(entries []model.DepotStock) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ProductID < entries[j].ProductID })
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// page slices items for a 1-based page; pageSize <= 0 returns everything.
func page[T any](items []T, offset, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
