package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile holds the tenant data of a user. ID equals the user ID.
type Profile struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName         string     `gorm:"size:128;not null" json:"first_name"`
	LastName          string     `gorm:"size:128;not null" json:"last_name"`
	Email             string     `gorm:"size:255;not null;index" json:"email"`
	Phone             string     `gorm:"size:64" json:"phone"`
	Nationality       string     `gorm:"size:64" json:"nationality"`
	BirthDate         *time.Time `json:"birth_date,omitempty"`
	Bio               string     `gorm:"type:text" json:"bio"`
	ProfilePictureURL string     `gorm:"size:1024" json:"profile_picture_url"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Role and RoomID are read from users and rooms when the query joins them.
	Role   UserRole   `gorm:"->;-:migration;column:role" json:"role,omitempty"`
	RoomID *uuid.UUID `gorm:"->;-:migration;column:room_id" json:"room_id"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
