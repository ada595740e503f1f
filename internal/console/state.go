// internal/console/state.go
package console

// State is a node of the application's top-level state machine.
//
//	Welcome -> Registering -> Welcome
//	Welcome -> Authenticating -> Session -> Welcome (logout)
//	Welcome -> Terminated (exit or end of input)
type State int

const (
	StateWelcome State = iota
	StateRegistering
	StateAuthenticating
	StateSession
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateWelcome:
		return "welcome"
	case StateRegistering:
		return "registering"
	case StateAuthenticating:
		return "authenticating"
	case StateSession:
		return "session"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
