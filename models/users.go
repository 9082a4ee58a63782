package models

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"

	AdminStatusActive = "active"
)

// Admin is a staff account. Password and SecurityKey hold bcrypt hashes and
// are never serialized to API clients; the store encodes them through
// StoredAdmin.
type Admin struct {
	ID          string    `json:"id"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Password    string    `json:"-"`
	SecurityKey string    `json:"-"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	LastLoginAt time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// StoredAdmin is the on-disk shape of an Admin record.
type StoredAdmin struct {
	Admin
	PasswordHash    string `json:"password"`
	SecurityKeyHash string `json:"securityKey"`
}

func (s StoredAdmin) ToAdmin() Admin {
	a := s.Admin
	a.Password = s.PasswordHash
	a.SecurityKey = s.SecurityKeyHash
	return a
}

func (a Admin) Stored() StoredAdmin {
	return StoredAdmin{Admin: a, PasswordHash: a.Password, SecurityKeyHash: a.SecurityKey}
}

// User is the customer profile the Customer Service keeps per phone number.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	OrderCount  int       `json:"orderCount"`
	LastOrderAt time.Time `json:"lastOrderAt"`
}

// NormalizePhone keeps only the digits of a phone number.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
