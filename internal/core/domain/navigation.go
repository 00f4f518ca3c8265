package domain

// Surface is a navigable view of the application.
type Surface struct {
	Path           string
	Protected      bool
	RequireManager bool
}

// The login form lives at the application root; every other view is a sub-path.
var (
	SurfaceLogin     = Surface{Path: "/"}
	SurfaceChecklist = Surface{Path: "/checklist", Protected: true}
	SurfaceInventory = Surface{Path: "/inventory", Protected: true}
	SurfaceDashboard = Surface{Path: "/dashboard", Protected: true, RequireManager: true}
)

var surfaces = map[string]Surface{
	SurfaceLogin.Path:     SurfaceLogin,
	SurfaceChecklist.Path: SurfaceChecklist,
	SurfaceInventory.Path: SurfaceInventory,
	SurfaceDashboard.Path: SurfaceDashboard,
}

// LookupSurface resolves a path to a known surface.
func LookupSurface(path string) (Surface, bool) {
	s, ok := surfaces[path]
	return s, ok
}

// GateState is the authorization state derived from the session.
type GateState string

const (
	StateUnauthenticated       GateState = "unauthenticated"
	StateAuthenticatedOperator GateState = "authenticated-operator"
	StateAuthenticatedManager  GateState = "authenticated-manager"
)

// GateAction is what the caller must do with the requested surface.
type GateAction string

const (
	ActionWait     GateAction = "wait"
	ActionRender   GateAction = "render"
	ActionRedirect GateAction = "redirect"
)

// GateInput is the part of the session the gate looks at.
type GateInput struct {
	Loading bool
	User    *User
}

// Decision is the outcome of a navigation check.
type Decision struct {
	Action   GateAction `json:"action"`
	Location string     `json:"location,omitempty"`
}

// State names the gate state for the given input.
func State(in GateInput) GateState {
	switch {
	case in.User == nil:
		return StateUnauthenticated
	case in.User.IsManager():
		return StateAuthenticatedManager
	default:
		return StateAuthenticatedOperator
	}
}

// Decide is a pure function of the session and the requested surface; it
// keeps no memory of earlier decisions.
func Decide(in GateInput, s Surface) Decision {
	if in.Loading {
		return Decision{Action: ActionWait}
	}
	state := State(in)

	if !s.Protected {
		if state != StateUnauthenticated && s.Path == SurfaceLogin.Path {
			return redirect(SurfaceChecklist)
		}
		return Decision{Action: ActionRender}
	}

	switch {
	case state == StateUnauthenticated:
		return redirect(SurfaceLogin)
	case s.RequireManager && state != StateAuthenticatedManager:
		return redirect(SurfaceChecklist)
	}
	return Decision{Action: ActionRender}
}

// DecidePath is Decide for a raw path; unknown paths go back to the root.
func DecidePath(in GateInput, path string) Decision {
	s, ok := LookupSurface(path)
	if !ok {
		if in.Loading {
			return Decision{Action: ActionWait}
		}
		return redirect(SurfaceLogin)
	}
	return Decide(in, s)
}

func redirect(to Surface) Decision {
	return Decision{Action: ActionRedirect, Location: to.Path}
}
