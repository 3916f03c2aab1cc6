package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"itembuildup/internal/users"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// UserClaims is the identity snapshot embedded in both token types.
// It is frozen at issuance; only a new login or an explicit reissue refreshes it.
type UserClaims struct {
	EmployeeID   string            `json:"employee_id"`
	FirstName    string            `json:"firstName"`
	LastName     string            `json:"lastName"`
	ProfileImage string            `json:"profile_image"`
	JobTitle     string            `json:"jobTitle"`
	Department   string            `json:"department"`
	AccountType  users.AccountType `json:"accountType"`
	Email        string            `json:"email"`
}

// Claims is the only JWT claims shape this service signs or accepts.
type Claims struct {
	jwt.RegisteredClaims
	UserClaims

	TokenType TokenType `json:"token_type"`
}

func ClaimsFromUser(u users.User) UserClaims {
	return UserClaims{
		EmployeeID:   u.EmployeeID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfileImage: u.ProfileImage,
		JobTitle:     u.JobTitle,
		Department:   u.Department,
		AccountType:  u.AccountType,
		Email:        u.Email,
	}
}
