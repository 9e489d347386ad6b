package domain

import "testing"

func TestCanMutate_Update(t *testing.T) {
	tests := []struct {
		name      string
		actorID   string
		actorRole Role
		targetID  string
		allowed   bool
		reason    DenyReason
	}{
		{"self update as user", "x", RoleUser, "x", true, ReasonAllowed},
		{"other update as user", "x", RoleUser, "y", false, ReasonNotOwner},
		{"other update as admin", "x", RoleAdmin, "y", true, ReasonAllowed},
		{"self update as admin", "x", RoleAdmin, "x", true, ReasonAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanMutate(tt.actorID, tt.actorRole, tt.targetID, OpUpdate)
			if d.Allowed != tt.allowed {
				t.Fatalf("allowed = %v, want %v", d.Allowed, tt.allowed)
			}
			if d.Reason != tt.reason {
				t.Fatalf("reason = %s, want %s", d.Reason, tt.reason)
			}
		})
	}
}

func TestCanMutate_Delete(t *testing.T) {
	tests := []struct {
		name      string
		actorID   string
		actorRole Role
		targetID  string
		allowed   bool
		reason    DenyReason
	}{
		{"admin deletes other", "x", RoleAdmin, "y", true, ReasonAllowed},
		{"admin deletes self", "x", RoleAdmin, "x", false, ReasonSelfDelete},
		{"user deletes other", "x", RoleUser, "y", false, ReasonAdminRequired},
		{"user deletes self", "x", RoleUser, "x", false, ReasonSelfDelete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanMutate(tt.actorID, tt.actorRole, tt.targetID, OpDelete)
			if d.Allowed != tt.allowed {
				t.Fatalf("allowed = %v, want %v", d.Allowed, tt.allowed)
			}
			if d.Reason != tt.reason {
				t.Fatalf("reason = %s, want %s", d.Reason, tt.reason)
			}
		})
	}
}

func TestRoleAllowed(t *testing.T) {
	if !RoleAllowed(nil, RoleUser) {
		t.Fatalf("empty required set should allow any authenticated principal")
	}
	if !RoleAllowed([]Role{RoleAdmin, RoleUser}, RoleUser) {
		t.Fatalf("member role should be allowed")
	}
	if RoleAllowed([]Role{RoleAdmin}, RoleUser) {
		t.Fatalf("non-member role should be denied")
	}
}

func TestAuthorize_ShortCircuit(t *testing.T) {
	ran := false
	deny := func(Principal) Decision { return Decision{Allowed: false, Reason: ReasonAdminRequired} }
	after := func(Principal) Decision { ran = true; return Decision{Allowed: true, Reason: ReasonAllowed} }

	d := Authorize(Principal{ID: "x", Role: RoleUser}, deny, after)
	if d.Allowed {
		t.Fatalf("expected deny")
	}
	if ran {
		t.Fatalf("guard after a deny must not run")
	}

	d = Authorize(Principal{ID: "x", Role: RoleAdmin}, RequireRoles(RoleAdmin), after)
	if !d.Allowed || !ran {
		t.Fatalf("expected all guards to run and allow")
	}
}
