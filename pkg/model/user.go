package model

import "time"

const (
	RoleHost     = "host"
	RoleMechanic = "mechanic"
	RoleAdmin    = "admin"
	RoleUnset    = "unset"

	StatusAwaitingApproval = "awaiting approval"
	StatusApproved         = "approved"
)

type UserProfile struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	DisplayName  string    `json:"display_name" bson:"display_name"`
	Role         string    `json:"role" bson:"role"`
	Status       string    `json:"status" bson:"status"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Identity is the acting staff member, resolved once per request and passed
// explicitly to every operation that needs it.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Status      string `json:"status"`
}

func (i Identity) IsApproved() bool {
	return i.Status == StatusApproved
}

func (i Identity) HasRole(roles ...string) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProfileUpdate struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=100"`
	Role        *string `json:"role,omitempty" validate:"omitempty,role"`
}
