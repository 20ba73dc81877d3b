package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// House is a rental property. Rooms belong to a house.
type House struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	HouseNumber int                         `gorm:"not null;uniqueIndex" json:"house_number"`
	Street      string                      `gorm:"size:255;not null" json:"street"`
	PostalCode  string                      `gorm:"size:32" json:"postal_code"`
	City        string                      `gorm:"size:128;not null;index" json:"city"`
	Description string                      `gorm:"type:text" json:"description"`
	TotalRooms  int                         `gorm:"not null" json:"total_rooms"`
	ImageURLs   datatypes.JSONSlice[string] `gorm:"column:image_urls;not null" json:"image_urls"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`

	Rooms []Room `gorm:"foreignKey:HouseID;constraint:OnDelete:CASCADE" json:"rooms,omitempty"`
	// RoomCount is filled by list queries.
	RoomCount int64 `gorm:"->;-:migration;column:room_count" json:"room_count"`
}

func (House) TableName() string { return "houses" }

func (h *House) BeforeCreate(_ *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.ImageURLs == nil {
		h.ImageURLs = datatypes.JSONSlice[string]{}
	}
	return nil
}

func (h *House) AfterFind(_ *gorm.DB) error {
	if h.ImageURLs == nil {
		h.ImageURLs = datatypes.JSONSlice[string]{}
	}
	return nil
}
