package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser         Role = "USER"
	RoleGuest        Role = "GUEST"
	RoleAdmin        Role = "ADMIN"
	RoleHotelManager Role = "HOTEL_MANAGER"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Phone     string    `json:"phone"`
	Password  string    `json:"-" gorm:"not null;default:''"` // empty for guest accounts
	Role      Role      `json:"role" gorm:"not null;default:'USER'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for User
func (User) TableName() string {
	return "users"
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleUser), string(RoleGuest), string(RoleAdmin), string(RoleHotelManager):
		return true
	default:
		return false
	}
}

// IsStaff reports whether the role can access management endpoints
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleHotelManager
}
