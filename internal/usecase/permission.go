package usecase

import (
	"github.com/korey-h/api-yamdb/internal/data/entity"
	"github.com/korey-h/api-yamdb/pkg/utils"
)

// Actor is the caller a permission decision is made for.
type Actor struct {
	ID      int64
	Role    entity.UserRole
	IsStaff bool
}

func ActorFromPrincipal(p utils.Principal) Actor {
	return Actor{ID: p.UserID, Role: entity.UserRole(p.Role), IsStaff: p.IsStaff}
}

// CanEditContent reports whether actor may change or delete a review or
// comment written by authorID.
func CanEditContent(actor Actor, authorID int64) bool {
	switch actor.Role {
	case entity.RoleAdmin, entity.RoleModerator:
		return true
	case entity.RoleUser:
		return actor.ID == authorID
	default:
		return false
	}
}

// CanAdminister reports whether actor may manage categories, genres, titles and users.
func CanAdminister(actor Actor) bool {
	if actor.IsStaff {
		return true
	}
	switch actor.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleModerator, entity.RoleUser:
		return false
	default:
		return false
	}
}
