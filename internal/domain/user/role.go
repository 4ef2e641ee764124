package user

import (
	"errors"
	"strings"
)

// Role is the closed set of permission classes. Authorization decisions
// only ever consult this enumeration; unknown values fail closed.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleNurse        Role = "nurse"
	RoleReceptionist Role = "receptionist"
	RolePatient      Role = "patient"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole maps a stored or transmitted role string onto the enum.
// Input is case-insensitive (legacy rows carried uppercase values);
// the canonical serialization is lowercase.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleDoctor:
		return RoleDoctor, nil
	case RoleNurse:
		return RoleNurse, nil
	case RoleReceptionist:
		return RoleReceptionist, nil
	case RolePatient:
		return RolePatient, nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// In reports whether the role is a member of the required set.
// An empty required set denies everything.
func (r Role) In(required ...Role) bool {
	for _, want := range required {
		if r == want {
			return true
		}
	}

	return false
}

// Staff roles allowed to touch patient records and manage appointments.
func SchedulingStaff() []Role {
	return []Role{RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist}
}
