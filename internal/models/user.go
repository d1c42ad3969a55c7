package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleUser   = "user"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

type User struct {
	ID          uuid.UUID `bson:"_id" json:"id"`
	Username    string    `bson:"username" json:"username" validate:"required,min=3"`
	FullName    string    `bson:"fullname" json:"fullname"`
	Email       string    `bson:"email" json:"email" validate:"required,email"`
	Password    string    `bson:"password" json:"password,omitempty"`
	Role        string    `bson:"role" json:"role"`
	PhoneNumber string    `bson:"phone_number" json:"phone_number,omitempty"`
	AvatarURL   string    `bson:"avatar_url" json:"avatar_url,omitempty"`
	Bio         string    `bson:"bio" json:"bio,omitempty"`
	Location    string    `bson:"location" json:"location,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// Sanitized strips the password hash before the user document leaves the API.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
