package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Room is a rentable unit of a house. HouseNumber mirrors the parent house and
// is kept in sync by the house and room services.
type Room struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	HouseID     uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_rooms_house_room" json:"house_id"`
	HouseNumber int                         `gorm:"not null;index" json:"house_number"`
	RoomNumber  int                         `gorm:"not null;uniqueIndex:idx_rooms_house_room" json:"room_number"`
	Price       float64                     `gorm:"not null" json:"price"`
	SizeSqm     float64                     `gorm:"not null" json:"size_sqm"`
	Description string                      `gorm:"type:text" json:"description"`
	Available   bool                        `gorm:"not null;index" json:"available"`
	TenantID    *uuid.UUID                  `gorm:"type:uuid;uniqueIndex" json:"tenant_id,omitempty"`
	ImageURLs   datatypes.JSONSlice[string] `gorm:"column:image_urls;not null" json:"image_urls"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (Room) TableName() string { return "rooms" }

func (r *Room) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.ImageURLs == nil {
		r.ImageURLs = datatypes.JSONSlice[string]{}
	}
	return nil
}

func (r *Room) AfterFind(_ *gorm.DB) error {
	if r.ImageURLs == nil {
		r.ImageURLs = datatypes.JSONSlice[string]{}
	}
	return nil
}

// Models lists every table owned by the service, in migration order.
func Models() []any {
	return []any{&User{}, &Profile{}, &House{}, &Room{}}
}
