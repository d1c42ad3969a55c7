package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/venuehub/server/internal/helpers"
	"github.com/venuehub/server/internal/models"
)

type UserService struct {
	usersRepo models.UsersRepo
	jwtSecret string
}

func NewUserService(usersRepo models.UsersRepo, jwtSecret string) *UserService {
	return &UserService{
		usersRepo: usersRepo,
		jwtSecret: jwtSecret,
	}
}

// Register creates a user or vendor account. Admin accounts are provisioned
// out of band, never through signup.
func (us *UserService) Register(ctx context.Context, user *models.User) (*models.User, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Username = strings.TrimSpace(user.Username)

	if err := models.Validate.Struct(user); err != nil {
		return nil, fmt.Errorf("invalid user data: %v: %w", err, models.ErrValidation)
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Role != models.RoleUser && user.Role != models.RoleVendor {
		return nil, fmt.Errorf("role must be user or vendor: %w", models.ErrValidation)
	}
	if !helpers.IsPasswordStrong(user.Password) {
		return nil, fmt.Errorf("password must be at least 8 characters with upper, lower, digit and special characters: %w", models.ErrValidation)
	}
	if err := user.HashPassword(); err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	created, err := us.usersRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	sanitized := created.Sanitized()
	return &sanitized, nil
}

// Login checks credentials and issues a signed token.
func (us *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := us.usersRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("invalid email or password: %w", models.ErrUnauthorized)
	}
	if !user.CheckPassword(password) {
		return "", nil, fmt.Errorf("invalid email or password: %w", models.ErrUnauthorized)
	}

	token, err := helpers.SignToken(user.ID, user.Role, user.Email, us.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %v", err)
	}
	sanitized := user.Sanitized()
	return token, &sanitized, nil
}

func (us *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID: %w", models.ErrValidation)
	}
	user, err := us.usersRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// UpdateProfile applies a whitelist of editable fields.
func (us *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, update map[string]interface{}) (*models.User, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID: %w", models.ErrValidation)
	}

	allowed := map[string]bool{
		"fullname": true, "bio": true, "location": true,
		"phone_number": true, "avatar_url": true, "username": true,
	}
	filtered := make(map[string]interface{}, len(update))
	for k, v := range update {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no editable fields in update: %w", models.ErrValidation)
	}

	user, err := us.usersRepo.UpdateUser(ctx, id, filtered)
	if err != nil {
		return nil, err
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}
