package dto

type ResolveInput struct {
	ID         string  `json:"-" validate:"required"`
	OwnerID    string  `json:"-" validate:"required"`
	ResolvedBy string  `json:"resolved_by" validate:"max=255"`
	Notes      *string `json:"notes" validate:"omitempty,max=2000"`
}
