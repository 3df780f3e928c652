package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MikeMC777/cod-delivery/internal/auth"
)

type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone,omitempty"`
	PasswordHash  string    `json:"-"`
	Role          auth.Role `json:"role"`
	IsAgeVerified bool      `json:"is_age_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (u *User) Principal() auth.Principal {
	return auth.Principal{UserID: u.ID, Name: u.Name, Role: u.Role}
}

// LoginRequest payload of login.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=254" example:"salma@example.ma"`
	Password string `json:"password" binding:"required,max=72" example:"s3cret-pass"`
}

// RegisterRequest payload of customer sign-up.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Name     string  `json:"name" binding:"required,max=120" example:"Salma Bennani"`
	Email    string  `json:"email" binding:"required,email,max=254" example:"salma@example.ma"`
	Phone    *string `json:"phone,omitempty" binding:"omitempty,e164" example:"+212600000000"`
	Password string  `json:"password" binding:"required,min=8,max=72" example:"s3cret-pass"`
}

// TokenResponse is returned by login.
// swagger:model TokenResponse
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}

// HashPassword bcrypt-hashes a plain password.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
