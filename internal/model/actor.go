package model

// ActorRole distinguishes the two classes of callers the lifecycle rules
// care about. Doctors and admins are both staff for transition purposes.
type ActorRole string

const (
	RolePatient ActorRole = "patient"
	RoleStaff   ActorRole = "staff"
)

// Actor is the authenticated caller, passed explicitly into every service
// operation instead of being read from ambient state.
type Actor struct {
	SubjectID string
	Role      ActorRole
}

// Staff reports whether the actor may apply staff-only transitions.
func (a Actor) Staff() bool {
	return a.Role == RoleStaff
}
