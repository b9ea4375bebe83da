// Package auth defines the identity and permission queries the versioning
// service relies on, and a role-based implementation backed by models.User.
package auth

import (
	"strconv"

	"promptversioning-backend/internal/models"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Permission struct {
	Action     Action
	Resource   string
	ResourceID string
}

// AuthContext answers who the caller is and what they may do.
type AuthContext interface {
	IsAuthenticated() bool
	HasPermission(p Permission) bool
	UserID() string
}

// OwnerLookup reports the user id that created resource id.
type OwnerLookup func(resource, id string) (owner string, ok bool)

// UserContext grants permissions by role:
//   - admin and editor may do anything;
//   - user may create and read, and update or delete only what they created.
type UserContext struct {
	user   *models.User
	owners OwnerLookup
}

func NewUserContext(user *models.User, owners OwnerLookup) *UserContext {
	return &UserContext{user: user, owners: owners}
}

// Anonymous is the context of a caller that has not logged in.
func Anonymous() *UserContext {
	return &UserContext{}
}

func (u *UserContext) IsAuthenticated() bool {
	return u.user != nil && u.user.ID != 0
}

func (u *UserContext) UserID() string {
	if !u.IsAuthenticated() {
		return ""
	}
	return strconv.FormatUint(uint64(u.user.ID), 10)
}

func (u *UserContext) HasPermission(p Permission) bool {
	if !u.IsAuthenticated() {
		return false
	}

	switch u.user.Role {
	case models.RoleAdmin, models.RoleEditor:
		return true
	}

	switch p.Action {
	case ActionCreate, ActionRead:
		return true
	case ActionUpdate, ActionDelete:
		if p.ResourceID == "" || u.owners == nil {
			return false
		}
		owner, ok := u.owners(p.Resource, p.ResourceID)
		return ok && owner == u.UserID()
	}
	return false
}
