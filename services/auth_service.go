package services

import (
	"context"
	"errors"

	apperrors "github.com/AbdelrahmanBadr7422/plot-twist-backend/common/errors"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type IUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type ITokenService interface {
	GenerateToken(userID, email, role string) (string, error)
}

// AuthResponse is returned on successful register/login.
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type AuthService struct {
	userRepo     IUserRepository
	tokenService ITokenService
}

func NewAuthService(ur IUserRepository, ts ITokenService) *AuthService {
	return &AuthService{userRepo: ur, tokenService: ts}
}

// Register creates a new account and returns it with a signed token.
func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*AuthResponse, error) {
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, apperrors.InvalidArgument("invalid role %q", role)
	}

	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.InvalidArgument("email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &models.User{
		Email:    email,
		Name:     name,
		Password: string(hashedPassword),
		Role:     role,
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.Internal("failed to create account", err)
	}

	token, err := s.tokenService.GenerateToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, apperrors.Internal("failed to generate token", err)
	}

	return &AuthResponse{User: user, Token: token}, nil
}

// Login checks credentials and returns the user with a signed token. The
// error message is identical for unknown email and wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.tokenService.GenerateToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, apperrors.Internal("failed to generate token", err)
	}

	return &AuthResponse{User: user, Token: token}, nil
}

// GetProfile returns the account behind an identity.
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}
