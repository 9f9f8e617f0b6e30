package dto

type ProductFilters struct {
	OwnerID     string `json:"owner_id"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	DepotID     string `json:"depot_id"`
	SearchQuery string `json:"q"`     // name or sku
	SortBy      string `json:"sort"`  // name, sku, stock, created_at
	SortOrder   string `json:"order"` // asc, desc
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
}

// Offset returns the row offset of the requested page (pages start at 1).
func (f *ProductFilters) Offset() int {
	if f.Page < 1 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
