package user

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var ErrInvalid = errors.New("invalid user")

const (
	MinUsernameLength = 3
	MaxUsernameLength = 64
	MinPasswordLength = 8
)

type User struct {
	ID           string    `gorm:"primaryKey;column:id" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null;column:username" json:"username"`
	PasswordHash string    `gorm:"not null;column:password_hash" json:"-"`
	CreatedAt    time.Time `gorm:"not null;column:created_at" json:"created_at"`
}

func (User) TableName() string { return "users" }

// New builds a user with a fresh id. The password must already be hashed.
func New(username, passwordHash string) (*User, error) {
	u := &User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(username),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) Validate() error {
	if u == nil {
		return fmt.Errorf("%w: user is nil", ErrInvalid)
	}
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("%w: id is blank", ErrInvalid)
	}
	if err := ValidateUsername(u.Username); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("%w: password hash is empty", ErrInvalid)
	}
	return nil
}

func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(username))
	if n < MinUsernameLength || n > MaxUsernameLength {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrInvalid, MinUsernameLength, MaxUsernameLength)
	}
	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalid, MinPasswordLength)
	}
	return nil
}
