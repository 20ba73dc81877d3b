package room

import "github.com/google/uuid"

type CreateRoomRequest struct {
	HouseID     uuid.UUID `json:"house_id" validate:"required"`
	RoomNumber  int       `json:"room_number" validate:"required,gt=0"`
	Price       float64   `json:"price" validate:"gte=0"`
	SizeSqm     float64   `json:"size_sqm" validate:"gte=0"`
	Description string    `json:"description" validate:"omitempty,max=5000"`
	Available   *bool     `json:"available"`
}

type UpdateRoomRequest struct {
	HouseID     *uuid.UUID `json:"house_id"`
	RoomNumber  *int       `json:"room_number" validate:"omitnil,gt=0"`
	Price       *float64   `json:"price" validate:"omitnil,gte=0"`
	SizeSqm     *float64   `json:"size_sqm" validate:"omitnil,gte=0"`
	Description *string    `json:"description" validate:"omitnil,max=5000"`
	Available   *bool      `json:"available"`
}

type AssignTenantRequest struct {
	ProfileID uuid.UUID `json:"profile_id" validate:"required"`
}

type RemoveImageRequest struct {
	URL string `json:"url" validate:"required"`
}
