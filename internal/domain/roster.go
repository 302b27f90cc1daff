package domain

// Role is a presentation tag from the roster. It never drives authorization here.
type Role string

const (
	RolePlayer   Role = "player"
	RoleCoach    Role = "coach"
	RoleDirector Role = "director"
	RoleAnalyst  Role = "analyst"
	RoleSub      Role = "sub"
)

// DefaultRole is assumed when the roster has no explicit role for a member
const DefaultRole = RolePlayer

var knownRoles = map[Role]struct{}{
	RolePlayer:   {},
	RoleCoach:    {},
	RoleDirector: {},
	RoleAnalyst:  {},
	RoleSub:      {},
}

// ParseRole maps free-form roster input onto the closed role set, defaulting to player
func ParseRole(raw string) Role {
	role := Role(NormalizeName(raw))
	if _, ok := knownRoles[role]; ok {
		return role
	}
	return DefaultRole
}

// RosterEntry is a member of the roster as published by the whitelist store
type RosterEntry struct {
	DisplayName string
	Role        Role
}
