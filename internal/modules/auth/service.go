package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"erasmus33/internal/domain"
)

// Service contains all business logic for authentication
type Service struct {
	users      UserRepositoryInterface
	jwt        jwtService
	bcryptCost int
	log        *zap.Logger
}

func NewService(users UserRepositoryInterface, jwt jwtService, bcryptCost int, log *zap.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, jwt: jwt, bcryptCost: bcryptCost, log: log}
}

// Register creates a tenant account with an empty profile and signs it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return nil, "", ErrEmptyName
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrEmailAlreadyExists
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleTenant,
	}
	profile := &domain.Profile{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
	}
	if err := s.users.CreateWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, "", ErrEmailAlreadyExists
		}
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))
	user.PasswordHash = ""
	return user, token, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

// Me returns the account behind a validated token.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}

// HashPassword is used by tooling that creates accounts outside the API.
// bcrypt only reads 72 bytes, so longer passwords are refused.
func HashPassword(password string, cost int) (string, error) {
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
