package dto

type DepotFilters struct {
	OwnerID     string
	Status      string
	SearchQuery string // name or location
	Page        int
	PageSize    int
}

func (f *DepotFilters) Offset() int {
	if f.Page < 1 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
