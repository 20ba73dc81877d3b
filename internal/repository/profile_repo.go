package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"erasmus33/internal/domain"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

type ProfileFilter struct {
	Search string
	Role   domain.UserRole
	Offset int
	Limit  int
}

func profileQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&domain.Profile{}).
		Select("profiles.*, users.role AS role, rooms.id AS room_id").
		Joins("JOIN users ON users.id = profiles.id").
		Joins("LEFT JOIN rooms ON rooms.tenant_id = profiles.id")
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	return getProfile(r.db.WithContext(ctx), id)
}

func getProfile(db *gorm.DB, id uuid.UUID) (*domain.Profile, error) {
	var p domain.Profile
	err := profileQuery(db).Where("profiles.id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) List(ctx context.Context, f ProfileFilter) ([]domain.Profile, int64, error) {
	var (
		profiles []domain.Profile
		total    int64
	)

	q := profileQuery(r.db.WithContext(ctx))
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(profiles.first_name) LIKE ? OR LOWER(profiles.last_name) LIKE ? OR LOWER(profiles.email) LIKE ?", like, like, like)
	}
	if f.Role != "" {
		q = q.Where("users.role = ?", f.Role)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("profiles.last_name ASC, profiles.first_name ASC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&profiles).Error
	return profiles, total, err
}

// Update applies column changes and returns the fresh profile.
func (r *ProfileRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Profile, error) {
	db := r.db.WithContext(ctx)
	if len(fields) > 0 {
		fields["updated_at"] = time.Now()
		res := db.Model(&domain.Profile{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, domain.ErrProfileNotFound
		}
	}
	return getProfile(db, id)
}

// SetPicture stores url and returns the URL it replaced.
func (r *ProfileRepository) SetPicture(ctx context.Context, id uuid.UUID, url string) (string, error) {
	var previous string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Profile
		if err := tx.Select("id", "profile_picture_url").Where("id = ?", id).Take(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProfileNotFound
			}
			return err
		}
		previous = p.ProfilePictureURL
		return tx.Model(&domain.Profile{}).Where("id = ?", id).Updates(map[string]any{
			"profile_picture_url": url,
			"updated_at":          time.Now(),
		}).Error
	})
	return previous, err
}

// DeleteAccount frees the tenant's room and removes profile and user.
// The deleted profile is returned so its picture can be cleaned up.
func (r *ProfileRepository) DeleteAccount(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	var deleted *domain.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := getProfile(tx, id)
		if err != nil {
			return err
		}
		if err := guardLastAdmin(tx, id); err != nil {
			return err
		}
		if err := vacateTenant(tx, id); err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&domain.Profile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&domain.User{}).Error; err != nil {
			return err
		}
		deleted = p
		return nil
	})
	return deleted, err
}

// vacateTenant releases whatever room profileID currently rents.
func vacateTenant(tx *gorm.DB, profileID uuid.UUID) error {
	return tx.Model(&domain.Room{}).
		Where("tenant_id = ?", profileID).
		Updates(map[string]any{
			"tenant_id":  nil,
			"available":  true,
			"updated_at": time.Now(),
		}).Error
}
