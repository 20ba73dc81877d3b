package auth

import (
	"time"

	"github.com/google/uuid"

	"erasmus33/internal/domain"
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,maxbytes=72"`
	FirstName string `json:"first_name" validate:"required,notblank,max=128"`
	LastName  string `json:"last_name" validate:"required,notblank,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserPublic struct {
	ID        uuid.UUID       `json:"id"`
	Email     string          `json:"email"`
	Role      domain.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

type AuthResponse struct {
	User  UserPublic `json:"user"`
	Token string     `json:"token"`
}

func toPublic(u *domain.User) UserPublic {
	return UserPublic{ID: u.ID, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}
