package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleHR          Role = "hr"
	RoleInterviewer Role = "interviewer"
)

// ParseRole accepts "recruiter" as the older name of the interviewer role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "hr":
		return RoleHR, nil
	case "interviewer", "recruiter":
		return RoleInterviewer, nil
	}
	return "", InvalidArgument("invalid role: must be admin, hr or interviewer")
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the caller resolved by the authentication layer.
type Actor struct {
	ID    string
	Email string
	Role  Role
}

func (a Actor) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
