package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	// Allowed to manage users and write
	RoleSuperuser Role = "superuser"
	// Read / Write
	RoleUser Role = "user"
	// Readonly
	RoleGuest Role = "guest"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleSuperuser, RoleUser, RoleGuest:
		return r, nil
	default:
		return "", fmt.Errorf("invalid role %q", s)
	}
}

type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

func NewUser(username, password string, role Role) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		Username: username,
		Password: string(hash),
		Role:     role,
	}, nil
}

func HashPassword(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
