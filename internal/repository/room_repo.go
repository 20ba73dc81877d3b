package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"erasmus33/internal/database"
	"erasmus33/internal/domain"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

type RoomFilter struct {
	HouseID   *uuid.UUID
	Available *bool
	MinPrice  *float64
	MaxPrice  *float64
	Offset    int
	Limit     int
}

// houseNumber returns the number of the house a room is attached to.
func houseNumber(tx *gorm.DB, houseID uuid.UUID) (int, error) {
	var h domain.House
	err := tx.Select("id", "house_number").Where("id = ?", houseID).Take(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, domain.ErrHouseNotFound
	}
	return h.HouseNumber, err
}

// Create stores the room with house_number taken from its house.
func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := houseNumber(tx, room.HouseID)
		if err != nil {
			return err
		}
		room.HouseNumber = n
		return tx.Create(room).Error
	})
	if database.IsUniqueViolation(err) {
		return domain.ErrDuplicateRoomNumber
	}
	return err
}

func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	return getRoom(r.db.WithContext(ctx), id, false)
}

func getRoom(db *gorm.DB, id uuid.UUID, lock bool) (*domain.Room, error) {
	if lock {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var room domain.Room
	err := db.Where("id = ?", id).Take(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Take(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) List(ctx context.Context, f RoomFilter) ([]domain.Room, int64, error) {
	var (
		rooms []domain.Room
		total int64
	)

	q := r.db.WithContext(ctx).Model(&domain.Room{})
	if f.HouseID != nil {
		q = q.Where("house_id = ?", *f.HouseID)
	}
	if f.Available != nil {
		q = q.Where("available = ?", *f.Available)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("house_number ASC, room_number ASC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&rooms).Error
	return rooms, total, err
}

// Update applies column changes. Moving the room to another house re-reads
// that house's number. An occupied room cannot be marked available.
func (r *RoomRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Room, error) {
	var updated *domain.Room
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := getRoom(tx, id, true)
		if err != nil {
			return err
		}
		if avail, ok := fields["available"].(bool); ok && avail && current.TenantID != nil {
			return domain.ErrRoomOccupied
		}
		if len(fields) > 0 {
			if houseID, ok := fields["house_id"].(uuid.UUID); ok {
				n, err := houseNumber(tx, houseID)
				if err != nil {
					return err
				}
				fields["house_number"] = n
			}
			fields["updated_at"] = time.Now()
			if err := tx.Model(&domain.Room{}).Where("id = ?", id).Updates(fields).Error; err != nil {
				return err
			}
		}
		room, err := getRoom(tx, id, false)
		updated = room
		return err
	})
	if database.IsUniqueViolation(err) {
		return nil, domain.ErrDuplicateRoomNumber
	}
	return updated, err
}

// Delete removes the room, ending any tenancy, and returns what was deleted.
func (r *RoomRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	var deleted *domain.Room
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := getRoom(tx, id, true)
		if err != nil {
			return err
		}
		if err := tx.Delete(&domain.Room{}, "id = ?", id).Error; err != nil {
			return err
		}
		deleted = room
		return nil
	})
	return deleted, err
}

// AssignTenant makes profileID the tenant of the room. A tenant renting
// another room is moved out of it first.
func (r *RoomRepository) AssignTenant(ctx context.Context, roomID, profileID uuid.UUID) (*domain.Room, error) {
	var assigned *domain.Room
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := getRoom(tx, roomID, true)
		if err != nil {
			return err
		}
		if room.TenantID != nil {
			if *room.TenantID == profileID {
				assigned = room
				return nil
			}
			return domain.ErrRoomOccupied
		}

		var count int64
		if err := tx.Model(&domain.Profile{}).Where("id = ?", profileID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrProfileNotFound
		}

		if err := vacateTenant(tx, profileID); err != nil {
			return err
		}
		if err := tx.Model(&domain.Room{}).Where("id = ?", roomID).Updates(map[string]any{
			"tenant_id":  profileID,
			"available":  false,
			"updated_at": time.Now(),
		}).Error; err != nil {
			return err
		}

		assigned, err = getRoom(tx, roomID, false)
		return err
	})
	return assigned, err
}

// VacateTenant clears the room's tenant and makes it available again.
func (r *RoomRepository) VacateTenant(ctx context.Context, roomID uuid.UUID) (*domain.Room, error) {
	var vacated *domain.Room
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getRoom(tx, roomID, true); err != nil {
			return err
		}
		if err := tx.Model(&domain.Room{}).Where("id = ?", roomID).Updates(map[string]any{
			"tenant_id":  nil,
			"available":  true,
			"updated_at": time.Now(),
		}).Error; err != nil {
			return err
		}
		room, err := getRoom(tx, roomID, false)
		vacated = room
		return err
	})
	return vacated, err
}

func (r *RoomRepository) AppendImages(ctx context.Context, id uuid.UUID, urls []string, max int) (*domain.Room, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return appendImages(tx, "rooms", id, urls, max, domain.ErrRoomNotFound, domain.ErrImageLimitExceeded)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *RoomRepository) RemoveImage(ctx context.Context, id uuid.UUID, url string) (*domain.Room, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return removeImage(tx, "rooms", id, url, domain.ErrRoomNotFound, domain.ErrImageNotFound)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// ImageCount returns how many images the room has.
func (r *RoomRepository) ImageCount(ctx context.Context, id uuid.UUID) (int, error) {
	var row imageRow
	err := r.db.WithContext(ctx).Table("rooms").Select("image_urls").Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, domain.ErrRoomNotFound
	}
	return len(row.ImageURLs), err
}
