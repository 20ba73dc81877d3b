package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"erasmus33/internal/database"
	"erasmus33/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) DB() *gorm.DB { return r.db }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateWithProfile inserts the user and its empty profile atomically.
func (r *UserRepository) CreateWithProfile(ctx context.Context, u *domain.User, p *domain.Profile) error {
	u.Email = normalizeEmail(u.Email)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		p.ID = u.ID
		if p.Email == "" {
			p.Email = u.Email
		}
		return tx.Create(p).Error
	})
	if database.IsUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", normalizeEmail(email)).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) CountByRole(ctx context.Context, role domain.UserRole) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// UpdateRole changes the user's role. Demoting the only admin fails with
// ErrLastAdmin.
func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.UserRole) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if role != domain.RoleAdmin {
			if err := guardLastAdmin(tx, id); err != nil {
				return err
			}
		}
		res := tx.Model(&domain.User{}).Where("id = ?", id).Update("role", role)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

// guardLastAdmin locks every admin row and fails when id is the only one
// left. Concurrent demotions and deletions queue on the same locks, so the
// count cannot go stale before the caller writes.
func guardLastAdmin(tx *gorm.DB, id uuid.UUID) error {
	var admins []domain.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("role = ?", domain.RoleAdmin).
		Order("id").
		Find(&admins).Error
	if err != nil {
		return err
	}
	for _, a := range admins {
		if a.ID == id {
			if len(admins) <= 1 {
				return domain.ErrLastAdmin
			}
			return nil
		}
	}
	return nil
}
