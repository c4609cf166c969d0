package models

import "fmt"

// Role — закрытый набор ролей системы.
type Role string

const (
	RoleSuperAdmin   Role = "SUPERADMIN"
	RoleAdmin        Role = "ADMIN"
	RoleDoctor       Role = "DOCTOR"
	RoleNurse        Role = "NURSE"
	RoleReceptionist Role = "RECEPTIONIST"
	RoleStaff        Role = "STAFF"
)

var knownRoles = map[Role]struct{}{
	RoleSuperAdmin:   {},
	RoleAdmin:        {},
	RoleDoctor:       {},
	RoleNurse:        {},
	RoleReceptionist: {},
	RoleStaff:        {},
}

// ParseRole проверяет, что строка является известной ролью.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := knownRoles[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// IsSuperAdmin сообщает, является ли роль ролью супер-администратора.
func (r Role) IsSuperAdmin() bool { return r == RoleSuperAdmin }

// IsAdmin сообщает, является ли роль ролью администратора больницы.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

func (r Role) String() string { return string(r) }
