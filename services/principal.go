package services

import "github.com/huey-app/huey/models"

// Principal is the authenticated caller, taken from a verified session token.
type Principal struct {
	UserID uint   `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func (p *Principal) IsOwner() bool {
	return p != nil && p.Role == models.RoleOwner
}
