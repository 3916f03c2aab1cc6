package users

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("users: not found")

// AccountType is the role integer stored on every user. It gates admin routes
// and selects which navigation entries a user sees.
type AccountType int

const (
	AccountSuperAdmin AccountType = 0
	AccountAdmin      AccountType = 1
	AccountEmployee   AccountType = 2
)

func (a AccountType) Valid() bool {
	return a >= AccountSuperAdmin && a <= AccountEmployee
}

// Status is the presence flag flipped by login and logout.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusOffline Status = "OFFLINE"
)

// User is a stored account record. The password hash is never serialized.
type User struct {
	EmployeeID   string      `json:"employee_id"`
	PasswordHash string      `json:"-"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	ProfileImage string      `json:"profile_image"`
	JobTitle     string      `json:"job_title"`
	Department   string      `json:"department"`
	AccountType  AccountType `json:"account_type"`
	Email        string      `json:"email"`
	Status       Status      `json:"status"`
	EditedAt     *time.Time  `json:"edit_date,omitempty"`
	EditedBy     string      `json:"edit_by,omitempty"`
}

// Changes describes an edit to an existing user.
// Empty strings and nil pointers leave the stored value untouched.
type Changes struct {
	EmployeeID   string
	FirstName    string
	LastName     string
	JobTitle     string
	Department   string
	Email        string
	AccountType  *AccountType
	PasswordHash string
	ProfileImage string

	EditedBy string
	EditedAt time.Time
}

func (c Changes) apply(u User) User {
	if c.FirstName != "" {
		u.FirstName = c.FirstName
	}
	if c.LastName != "" {
		u.LastName = c.LastName
	}
	if c.JobTitle != "" {
		u.JobTitle = c.JobTitle
	}
	if c.Department != "" {
		u.Department = c.Department
	}
	if c.Email != "" {
		u.Email = c.Email
	}
	if c.AccountType != nil {
		u.AccountType = *c.AccountType
	}
	if c.PasswordHash != "" {
		u.PasswordHash = c.PasswordHash
	}
	if c.ProfileImage != "" {
		u.ProfileImage = c.ProfileImage
	}
	at := c.EditedAt
	u.EditedAt = &at
	u.EditedBy = c.EditedBy
	return u
}
