package models

import "strings"

// Role is the closed set of account kinds the remote service issues.
type Role string

const (
	RoleStudent   Role = "student"
	RoleParent    Role = "parent"
	RoleCounselor Role = "counselor"
	RoleAdmin     Role = "admin"
)

// Roles lists every role in display order.
var Roles = []Role{RoleStudent, RoleParent, RoleCounselor, RoleAdmin}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleParent, RoleCounselor, RoleAdmin:
		return true
	}
	return false
}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Language is a display language code.
type Language string

const (
	LangEnglish  Language = "en"
	LangHindi    Language = "hi"
	LangKashmiri Language = "ks"
)

// DefaultLanguage is used until a session or the user picks another one.
const DefaultLanguage = LangEnglish

// Languages lists the supported display languages in selector order.
var Languages = []Language{LangEnglish, LangHindi, LangKashmiri}

// Valid reports whether l is a supported display language.
func (l Language) Valid() bool {
	switch l {
	case LangEnglish, LangHindi, LangKashmiri:
		return true
	}
	return false
}

// Credential is the opaque bearer token issued by the remote service.
type Credential string

// String keeps tokens out of logs and formatted errors.
func (c Credential) String() string {
	if c == "" {
		return "Credential(none)"
	}
	return "Credential(redacted)"
}

// Value returns the raw token for the Authorization header.
func (c Credential) Value() string { return string(c) }

// UserIdentity is the authenticated user's profile as returned by the remote service.
type UserIdentity struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	FullName          string    `json:"full_name"`
	Role              Role      `json:"role"`
	PreferredLanguage Language  `json:"preferred_language,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         Timestamp `json:"created_at"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email             string   `json:"email" validate:"required,email"`
	Password          string   `json:"password" validate:"required,min=6"`
	FullName          string   `json:"full_name" validate:"required,min=2"`
	Role              Role     `json:"role" validate:"required,oneof=student parent counselor admin"`
	Phone             string   `json:"phone,omitempty"`
	PreferredLanguage Language `json:"preferred_language,omitempty" validate:"omitempty,oneof=en hi ks"`
}

// AuthResponse is returned by both login and registration.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserIdentity `json:"user"`
}

// StudentProfile holds the academic details kept for student accounts.
type StudentProfile struct {
	ID            string   `json:"id,omitempty"`
	UserID        string   `json:"user_id"`
	AcademicLevel string   `json:"academic_level"`
	Subjects      []string `json:"subjects"`
	Interests     []string `json:"interests"`
	CareerGoals   []string `json:"career_goals"`
	Strengths     []string `json:"strengths"`
}
