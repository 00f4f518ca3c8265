package domain

import "testing"

func TestDecide(t *testing.T) {
	op := &User{ID: 1, Role: RoleOperator}
	mgr := &User{ID: 2, Role: RoleManager}

	tests := []struct {
		name    string
		in      GateInput
		surface Surface
		want    Decision
	}{
		{"loading waits on protected", GateInput{Loading: true}, SurfaceChecklist, Decision{Action: ActionWait}},
		{"loading waits on login", GateInput{Loading: true, User: op}, SurfaceLogin, Decision{Action: ActionWait}},
		{"anonymous sees login", GateInput{}, SurfaceLogin, Decision{Action: ActionRender}},
		{"anonymous sent to root", GateInput{}, SurfaceInventory, Decision{Action: ActionRedirect, Location: "/"}},
		{"anonymous sent to root from dashboard", GateInput{}, SurfaceDashboard, Decision{Action: ActionRedirect, Location: "/"}},
		{"operator renders checklist", GateInput{User: op}, SurfaceChecklist, Decision{Action: ActionRender}},
		{"operator renders inventory", GateInput{User: op}, SurfaceInventory, Decision{Action: ActionRender}},
		{"operator bounced from dashboard", GateInput{User: op}, SurfaceDashboard, Decision{Action: ActionRedirect, Location: "/checklist"}},
		{"manager renders dashboard", GateInput{User: mgr}, SurfaceDashboard, Decision{Action: ActionRender}},
		{"logged-in user leaves login", GateInput{User: mgr}, SurfaceLogin, Decision{Action: ActionRedirect, Location: "/checklist"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.in, tc.surface); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestDecide_IsPure(t *testing.T) {
	in := GateInput{User: &User{Role: RoleOperator}}
	first := Decide(in, SurfaceDashboard)
	for i := 0; i < 3; i++ {
		if got := Decide(in, SurfaceDashboard); got != first {
			t.Fatalf("decision changed on call %d: %+v", i, got)
		}
	}
}

func TestDecidePath_UnknownGoesToRoot(t *testing.T) {
	got := DecidePath(GateInput{User: &User{Role: RoleManager}}, "/nope")
	if got.Action != ActionRedirect || got.Location != "/" {
		t.Fatalf("unexpected decision %+v", got)
	}
}

func TestState(t *testing.T) {
	if s := State(GateInput{}); s != StateUnauthenticated {
		t.Errorf("got %s", s)
	}
	if s := State(GateInput{User: &User{Role: RoleOperator}}); s != StateAuthenticatedOperator {
		t.Errorf("got %s", s)
	}
	if s := State(GateInput{User: &User{Role: RoleManager}}); s != StateAuthenticatedManager {
		t.Errorf("got %s", s)
	}
}
