package rbac

import (
	"fmt"
	"strings"
)

type Role string

const (
	Member  Role = "MEMBER"
	Staff   Role = "STAFF"
	Manager Role = "MANAGER"
	Admin   Role = "ADMIN"
	Owner   Role = "OWNER"
)

// Roles lists the hierarchy from lowest to highest rank.
var Roles = []Role{Member, Staff, Manager, Admin, Owner}

var hierarchy = map[Role]int{
	Member:  1,
	Staff:   2,
	Manager: 3,
	Admin:   4,
	Owner:   5,
}

// Minimum roles required by the back office actions.
const (
	ContentWriteRole  = Manager
	StatsReadRole     = Staff
	DirectoryReadRole = Manager
	RoleAssignRole    = Manager
	AccountDeleteRole = Owner
)

// Rank returns the weight of r in the hierarchy. Unknown roles rank 0.
func (r Role) Rank() int {
	return hierarchy[r]
}

func (r Role) IsValid() bool {
	_, ok := hierarchy[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}

// CanManage reports whether actor strictly outranks target.
func CanManage(actor, target Role) bool {
	return actor.Rank() > target.Rank()
}

// HasPermission reports whether actor ranks at least as high as required.
func HasPermission(actor, required Role) bool {
	return actor.Rank() >= required.Rank()
}

func Parse(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
