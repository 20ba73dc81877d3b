package auth

import (
	"context"

	"github.com/google/uuid"

	"erasmus33/internal/domain"
)

// UserRepositoryInterface — only the methods auth service uses
type UserRepositoryInterface interface {
	CreateWithProfile(ctx context.Context, u *domain.User, p *domain.Profile) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type jwtService interface {
	GenerateToken(userID uuid.UUID, role string) (string, error)
}
