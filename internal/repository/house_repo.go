package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"erasmus33/internal/database"
	"erasmus33/internal/domain"
)

type HouseRepository struct {
	db *gorm.DB
}

func NewHouseRepository(db *gorm.DB) *HouseRepository {
	return &HouseRepository{db: db}
}

const houseColumns = "houses.*, (SELECT COUNT(*) FROM rooms WHERE rooms.house_id = houses.id) AS room_count"

type HouseFilter struct {
	City   string
	Offset int
	Limit  int
}

func (r *HouseRepository) Create(ctx context.Context, h *domain.House) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(h).Error
	if database.IsUniqueViolation(err) {
		return domain.ErrDuplicateHouseNumber
	}
	return err
}

// GetByID loads a house, optionally with its rooms ordered by number.
func (r *HouseRepository) GetByID(ctx context.Context, id uuid.UUID, withRooms bool) (*domain.House, error) {
	q := r.db.WithContext(ctx)
	if withRooms {
		q = q.Preload("Rooms", func(db *gorm.DB) *gorm.DB {
			return db.Order("room_number ASC")
		})
	}

	var h domain.House
	err := q.Select(houseColumns).Where("id = ?", id).Take(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrHouseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HouseRepository) List(ctx context.Context, f HouseFilter) ([]domain.House, int64, error) {
	var (
		houses []domain.House
		total  int64
	)

	q := r.db.WithContext(ctx).Model(&domain.House{})
	if city := strings.TrimSpace(f.City); city != "" {
		q = q.Where("LOWER(city) = ?", strings.ToLower(city))
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Select(houseColumns).
		Order("house_number ASC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&houses).Error
	return houses, total, err
}

// Update applies column changes. A new house_number is copied to the
// house's rooms in the same transaction.
func (r *HouseRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.House, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var h domain.House
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Take(&h).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrHouseNotFound
			}
			return err
		}
		if len(fields) == 0 {
			return nil
		}

		fields["updated_at"] = time.Now()
		if err := tx.Model(&domain.House{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}

		if n, ok := fields["house_number"]; ok && n != h.HouseNumber {
			return tx.Model(&domain.Room{}).Where("house_id = ?", id).Updates(map[string]any{
				"house_number": n,
				"updated_at":   time.Now(),
			}).Error
		}
		return nil
	})
	if database.IsUniqueViolation(err) {
		return nil, domain.ErrDuplicateHouseNumber
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id, false)
}

// Delete removes the house and its rooms, which also ends their tenancies.
// It returns the image URLs of the house and of every removed room.
func (r *HouseRepository) Delete(ctx context.Context, id uuid.UUID) (houseImages, roomImages []string, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var h domain.House
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Take(&h).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrHouseNotFound
			}
			return err
		}

		var rooms []domain.Room
		if err := tx.Where("house_id = ?", id).Find(&rooms).Error; err != nil {
			return err
		}
		if err := tx.Where("house_id = ?", id).Delete(&domain.Room{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.House{}, "id = ?", id).Error; err != nil {
			return err
		}

		houseImages = []string(h.ImageURLs)
		for _, room := range rooms {
			roomImages = append(roomImages, room.ImageURLs...)
		}
		return nil
	})
	return houseImages, roomImages, err
}

func (r *HouseRepository) AppendImages(ctx context.Context, id uuid.UUID, urls []string, max int) (*domain.House, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return appendImages(tx, "houses", id, urls, max, domain.ErrHouseNotFound, domain.ErrImageLimitExceeded)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id, false)
}

func (r *HouseRepository) RemoveImage(ctx context.Context, id uuid.UUID, url string) (*domain.House, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return removeImage(tx, "houses", id, url, domain.ErrHouseNotFound, domain.ErrImageNotFound)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id, false)
}

// ImageCount returns how many images the house has.
func (r *HouseRepository) ImageCount(ctx context.Context, id uuid.UUID) (int, error) {
	var row imageRow
	err := r.db.WithContext(ctx).Table("houses").Select("image_urls").Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, domain.ErrHouseNotFound
	}
	return len(row.ImageURLs), err
}
