package service

import (
	"errors"
	"strings"

	"go-pos-inventory/internal/apperr"
	"go-pos-inventory/internal/auth"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmailExists    = apperr.Validation("email already exists")
	ErrUsernameExists = apperr.Validation("username already exists")
)

type UserService interface {
	CreateUser(req *CreateUserRequest, actor *auth.Identity) (*model.User, error)
	UpdateUser(userID uuid.UUID, req *UpdateUserRequest, actor *auth.Identity) (*model.User, error)
	DeleteUser(userID uuid.UUID, actor *auth.Identity) error
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
	GetRoles() []model.RoleInfo
}

type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"max=20"`
	Role        string `json:"role" validate:"required,oneof=admin manager cashier"`
}

type UpdateUserRequest struct {
	Username    string  `json:"username" validate:"required,min=3,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	FullName    string  `json:"full_name" validate:"required"`
	PhoneNumber string  `json:"phone_number" validate:"max=20"`
	Role        string  `json:"role" validate:"required,oneof=admin manager cashier"`
	IsActive    *bool   `json:"is_active"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(req *CreateUserRequest, actor *auth.Identity) (*model.User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(uuid.Nil, req.Email, req.Username); err != nil {
		return nil, err
	}

	user := &model.User{
		Username:    strings.TrimSpace(req.Username),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
		IsActive:    true,
	}
	user.CreatedBy = actorID(actor)
	user.UpdatedBy = actorID(actor)

	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperr.Internal(err)
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	return user, nil
}

func (s *userService) UpdateUser(userID uuid.UUID, req *UpdateUserRequest, actor *auth.Identity) (*model.User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.FromDB(err, "user")
	}

	if err := s.ensureUnique(user.ID, req.Email, req.Username); err != nil {
		return nil, err
	}

	// An admin cannot lock themselves out
	if actor != nil && actor.UserID == user.ID {
		if req.Role != user.Role || (req.IsActive != nil && !*req.IsActive) {
			return nil, apperr.Validation("you cannot change your own role or deactivate yourself")
		}
	}

	user.Username = strings.TrimSpace(req.Username)
	user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	user.FullName = req.FullName
	user.PhoneNumber = req.PhoneNumber
	user.Role = req.Role
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = actorID(actor)

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, apperr.Internal(err)
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperr.FromDB(err, "user")
	}

	// Role or status changes take effect on the next request, not at token expiry
	if err := s.userRepo.UpdateTokenVersion(user.ID, uuid.New().String()); err != nil {
		return nil, apperr.Internal(err)
	}

	user, err = s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	return user, nil
}

func (s *userService) DeleteUser(userID uuid.UUID, actor *auth.Identity) error {
	if actor != nil && actor.UserID == userID {
		return apperr.Validation("you cannot delete your own account")
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return apperr.FromDB(err, "user")
	}
	if err := s.userRepo.Delete(userID, actorID(actor)); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	response := user.ToResponse()
	return &response, nil
}

func (s *userService) GetRoles() []model.RoleInfo {
	return model.DefaultRoles
}

func (s *userService) ensureUnique(self uuid.UUID, email, username string) error {
	existing, err := s.userRepo.FindByEmail(strings.TrimSpace(email))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal(err)
	}
	if existing != nil && existing.ID != self {
		return ErrEmailExists
	}

	existing, err = s.userRepo.FindByUsername(strings.TrimSpace(username))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal(err)
	}
	if existing != nil && existing.ID != self {
		return ErrUsernameExists
	}
	return nil
}
