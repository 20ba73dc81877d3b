package house

type CreateHouseRequest struct {
	HouseNumber int    `json:"house_number" validate:"required,gt=0"`
	Street      string `json:"street" validate:"required,max=255"`
	PostalCode  string `json:"postal_code" validate:"omitempty,max=32"`
	City        string `json:"city" validate:"required,max=128"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	TotalRooms  int    `json:"total_rooms" validate:"gte=0"`
}

type UpdateHouseRequest struct {
	HouseNumber *int    `json:"house_number" validate:"omitnil,gt=0"`
	Street      *string `json:"street" validate:"omitnil,min=1,max=255"`
	PostalCode  *string `json:"postal_code" validate:"omitnil,max=32"`
	City        *string `json:"city" validate:"omitnil,min=1,max=128"`
	Description *string `json:"description" validate:"omitnil,max=5000"`
	TotalRooms  *int    `json:"total_rooms" validate:"omitnil,gte=0"`
}

type RemoveImageRequest struct {
	URL string `json:"url" validate:"required"`
}
