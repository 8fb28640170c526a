package models

import "time"

// User types form a closed enumeration, enforced by the users_user_type_enum
// type in the database.
const (
	UserTypeIndependent   = "independente"
	UserTypeInstitutional = "institucional"
	UserTypeStudent       = "aluno"
)

// User is the credential-store record. PasswordHash is write-only from the
// outside: it must never appear in a response body or a log line.
type User struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  string
	FullName      string
	UserType      string
	InstitutionID *string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PublicUser is the projection of User that is safe to serialize.
type PublicUser struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	FullName      string  `json:"full_name"`
	UserType      string  `json:"user_type"`
	InstitutionID *string `json:"institution_id"`
	Active        bool    `json:"active"`
}

// Public returns the user projection with the password hash stripped.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		UserType:      u.UserType,
		InstitutionID: u.InstitutionID,
		Active:        u.Active,
	}
}
