package service

import (
	"errors"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/repository"
	"go-storefront-ws/pkg/jwt"
	"go-storefront-ws/pkg/validator"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrEmailTaken         = errors.New("email already registered")
)

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	Register(email, password, storeName string) (*LoginResponse, error)
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	log      zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, log zerolog.Logger) AuthService {
	return &authService{userRepo: userRepo, log: log}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.StoreName)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	s.log.Info().Str("email", email).Msg("seller logged in")
	return &LoginResponse{Token: token, User: user.ToResponse()}, nil
}

// Register creates a seller account and signs it in immediately, the same
// flow the storefront's create-profile page drives.
func (s *authService) Register(email, password, storeName string) (*LoginResponse, error) {
	user := &model.User{
		Email:     email,
		StoreName: storeName,
		IsActive:  true,
	}
	if errs := validator.ValidateStruct(user); len(errs) > 0 {
		first := errs[0]
		return nil, errors.New("validation failed: field '" + first.FailedField + "' failed on tag '" + first.Tag + "'")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	if existing, err := s.userRepo.FindByEmail(email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	if err := user.SetPassword(password); err != nil {
		return nil, errors.New("failed to hash password")
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return s.Login(email, password)
}
