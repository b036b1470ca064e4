package auth

import (
	"fmt"
	"strings"
)

// Role is the coarse authorization level of a principal.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// roleOrder is the linear hierarchy, weakest first. Adding an intermediate
// role means inserting it here; every comparison goes through rank().
var roleOrder = []Role{RoleUser, RoleAdmin}

func (r Role) rank() (int, bool) {
	for i, candidate := range roleOrder {
		if candidate == r {
			return i, true
		}
	}
	return 0, false
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := r.rank()
	return ok
}

// AtLeast reports whether r dominates or equals min in the role hierarchy.
// Unknown roles never dominate anything.
func (r Role) AtLeast(min Role) bool {
	ri, ok := r.rank()
	if !ok {
		return false
	}
	mi, ok := min.rank()
	if !ok {
		return false
	}
	return ri >= mi
}

// RolesDominatedBy returns every role r dominates, r included, weakest
// first. Unknown roles dominate nothing.
func RolesDominatedBy(r Role) []Role {
	ri, ok := r.rank()
	if !ok {
		return nil
	}
	out := make([]Role, ri+1)
	copy(out, roleOrder[:ri+1])
	return out
}

// ParseRole normalizes and validates a role string.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(strings.ToLower(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
	}
	return r, nil
}
