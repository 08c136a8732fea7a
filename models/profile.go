package models

import "github.com/google/uuid"

// UserRole values as issued by the auth service.
type UserRole string

const (
	RoleAdmin        UserRole = "admin"
	RoleOrganisateur UserRole = "organisateur"
	RoleJoueur       UserRole = "joueur"
	RoleSpectateur   UserRole = "spectateur"
)

// Profile is owned by the auth service; read-only here.
type Profile struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Role        UserRole  `json:"role,omitempty" db:"role"`
}
