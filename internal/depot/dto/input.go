package dto

type CreateDepotInput struct {
	OwnerID  string `json:"-" validate:"required"`
	Name     string `json:"name" validate:"required,max=255"`
	Location string `json:"location"`
	Capacity int64  `json:"capacity" validate:"gte=0"`
}

type UpdateDepotInput struct {
	ID       string  `json:"-" validate:"required"`
	OwnerID  string  `json:"-" validate:"required"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Location *string `json:"location"`
	Capacity *int64  `json:"capacity" validate:"omitempty,gte=0"`
}
