package model

// Role is an account's user type. The string values are the wire tokens.
type Role string

const (
	RoleFamilyMember Role = "Family Member"
	RoleNurse        Role = "Nurse"
	RoleNutritionist Role = "Nutritionist"
	RoleAdmin        Role = "Admin"
)

// Roles lists every recognized role.
var Roles = []Role{RoleFamilyMember, RoleNurse, RoleNutritionist, RoleAdmin}

// ParseRole returns the role named by s and whether it is recognized.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

func (r Role) String() string { return string(r) }
