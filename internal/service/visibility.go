package service

import "github.com/xxiimcha/lifeec-mobile/internal/model"

// VisibleRoles returns the roles whose accounts a requester with the given
// role token may see. Admin is always included. Unrecognized or empty tokens
// get the Admin-only set rather than an error.
func VisibleRoles(role string) []model.Role {
	switch model.Role(role) {
	case model.RoleFamilyMember:
		return []model.Role{model.RoleNurse, model.RoleAdmin}
	case model.RoleNurse:
		return []model.Role{model.RoleFamilyMember, model.RoleNutritionist, model.RoleAdmin}
	case model.RoleNutritionist:
		return []model.Role{model.RoleNurse, model.RoleAdmin}
	default:
		// TODO: product owners to confirm whether unknown roles should see no one
		return []model.Role{model.RoleAdmin}
	}
}
