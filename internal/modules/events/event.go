package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoomCreated    = "room.created"
	RoomUpdated    = "room.updated"
	RoomDeleted    = "room.deleted"
	TenantAssigned = "room.tenant_assigned"
	TenantVacated  = "room.tenant_vacated"
	HouseDeleted   = "house.deleted"
)

// Event is pushed to every connected client when room availability changes.
type Event struct {
	Type      string     `json:"type"`
	RoomID    *uuid.UUID `json:"room_id,omitempty"`
	HouseID   *uuid.UUID `json:"house_id,omitempty"`
	TenantID  *uuid.UUID `json:"tenant_id,omitempty"`
	Available *bool      `json:"available,omitempty"`
	At        time.Time  `json:"at"`
}

// Publisher accepts events. A nil Publisher is valid and drops everything.
type Publisher interface {
	Publish(evt Event)
}

// Publish sends evt through p when p is set.
func Publish(p Publisher, evt Event) {
	if p == nil {
		return
	}
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	p.Publish(evt)
}
