package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-pos-inventory/internal/apperr"
	"go-pos-inventory/internal/auth"
	"go-pos-inventory/internal/events"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/pkg/jwt"
)

var (
	ErrInvalidCredentials = apperr.Authentication("invalid email/username or password")
	ErrUserInactive       = apperr.Authentication("user account is inactive")
	ErrSessionReplaced    = apperr.Authentication("session expired (logged in on another device)")
	ErrWrongPassword      = apperr.Validation("current password is incorrect")
)

type AuthService interface {
	Login(req *LoginRequest) (*LoginResponse, error)
	ChangePassword(userID uuid.UUID, req *ChangePasswordRequest) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	// Identify resolves a bearer token into the operator behind it
	Identify(tokenString string) (*auth.Identity, error)
	Heartbeat(identity *auth.Identity) error
}

type LoginRequest struct {
	Login    string `json:"login" validate:"required"` // email or username
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,nefield=OldPassword"`
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
	Role  string             `json:"role"`
}

type TokenValidationResponse struct {
	User model.UserResponse `json:"user"`
	Role string             `json:"role"`
}

type authService struct {
	userRepo repository.UserRepository
	events   *events.Dispatcher
}

func NewAuthService(userRepo repository.UserRepository, dispatcher *events.Dispatcher) AuthService {
	return &authService{
		userRepo: userRepo,
		events:   dispatcher,
	}
}

func (s *authService) Login(req *LoginRequest) (*LoginResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByLogin(req.Login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperr.Internal(err)
	}

	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// Single session: a new token version invalidates tokens issued before
	now := time.Now()
	user.TokenVersion = uuid.New().String()
	user.LastSeenAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, apperr.Internal(err)
	}

	token, err := jwt.GenerateToken(user.ID, user.Username, user.Email, user.FullName, user.Role, user.TokenVersion)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
		Role:  user.Role,
	}, nil
}

func (s *authService) ChangePassword(userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperr.FromDB(err, "user")
	}

	if !user.CheckPassword(req.OldPassword) {
		return ErrWrongPassword
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return apperr.Internal(err)
	}
	user.UpdatedBy = userID.String()
	if err := s.userRepo.Update(user); err != nil {
		return apperr.Internal(err)
	}

	// Other devices have to log in again with the new password
	if err := s.userRepo.UpdateTokenVersion(user.ID, uuid.New().String()); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	user, err := s.resolve(tokenString)
	if err != nil {
		return nil, err
	}
	return &TokenValidationResponse{
		User: user.ToResponse(),
		Role: user.Role,
	}, nil
}

func (s *authService) Identify(tokenString string) (*auth.Identity, error) {
	user, err := s.resolve(tokenString)
	if err != nil {
		return nil, err
	}
	return &auth.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Name:     user.FullName,
		Role:     user.Role,
	}, nil
}

// resolve checks the signature, then the account state the token was issued against
func (s *authService) resolve(tokenString string) (*model.User, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrMissingToken) {
			return nil, apperr.Authentication("missing authorization token")
		}
		return nil, apperr.Authentication("invalid or expired token")
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Authentication("user no longer exists")
		}
		return nil, apperr.Internal(err)
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}
	return user, nil
}

func (s *authService) Heartbeat(identity *auth.Identity) error {
	if err := s.userRepo.UpdateLastSeen(identity.UserID); err != nil {
		return apperr.Internal(err)
	}

	// Broadcast on every heartbeat so freshly connected clients learn who is online
	s.events.Emit(events.Event{
		Type:  events.UserStatus,
		Key:   identity.UserID.String(),
		Actor: actorOf(identity),
		Data: map[string]interface{}{
			"user_id":      identity.UserID.String(),
			"status":       "online",
			"last_seen_at": time.Now(),
		},
	})
	return nil
}
