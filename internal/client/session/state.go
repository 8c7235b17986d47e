package session

import "github.com/dmitrijs2005/blogcli/internal/client/models"

// Phase is the session's position in its lifecycle. Exactly one phase holds
// at any time; there is no separate loading flag to combine into impossible
// states.
type Phase int

const (
	// PhaseBootstrapping is the initial phase, before the stored
	// credentials have been checked against the backend.
	PhaseBootstrapping Phase = iota

	// PhaseAnonymous means no valid session exists.
	PhaseAnonymous

	// PhaseAuthenticated means a user profile is loaded and requests carry
	// their credentials.
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseBootstrapping:
		return "bootstrapping"
	case PhaseAnonymous:
		return "anonymous"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session. User is non-nil only in
// PhaseAuthenticated. Err, when set, is a message suitable for direct
// display to the user.
type State struct {
	Phase Phase
	User  *models.User
	Err   string
}
