package booking

import "github.com/BruksfildServices01/agenda-engine/internal/models"

type Role string

const (
	RoleAnonymous Role = ""
	RoleCustomer  Role = "customer"
	RoleStaff     Role = "staff"
	RoleAdmin     Role = "admin"
)

// Actor is the trusted caller identity handed over by the auth layer.
type Actor struct {
	UserID *uint
	Role   Role
}

func Anonymous() Actor {
	return Actor{Role: RoleAnonymous}
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}

func (a Actor) Owns(b *models.Booking) bool {
	return a.UserID != nil && b.UserID != nil && *a.UserID == *b.UserID
}
