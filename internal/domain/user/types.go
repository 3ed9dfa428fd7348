package user

type Role string

const (
	RoleUser     Role = "user"
	RoleDelivery Role = "delivery"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleDelivery, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) IsCourier() bool {
	return r == RoleDelivery
}

// IsStaff reports roles allowed to manage any order or coupon.
func (r Role) IsStaff() bool {
	return r == RoleManager || r == RoleAdmin
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
