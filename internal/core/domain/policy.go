package domain

// MutationOp identifies an operation against another user's record.
type MutationOp string

const (
	OpUpdate MutationOp = "update"
	OpDelete MutationOp = "delete"
)

// DenyReason explains why a mutation was refused.
type DenyReason string

const (
	ReasonAllowed       DenyReason = "allowed"
	ReasonNotOwner      DenyReason = "not_owner"
	ReasonAdminRequired DenyReason = "admin_required"
	ReasonSelfDelete    DenyReason = "self_delete"
)

// Decision is the outcome of an access policy check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Guard is a pure authorization check over a principal. Guards compose via
// Authorize, short-circuiting on the first deny.
type Guard func(p Principal) Decision

func allow() Decision {
	return Decision{Allowed: true, Reason: ReasonAllowed}
}

func deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// RoleAllowed reports whether the actor's role is in the required set.
// An empty set means any authenticated principal.
func RoleAllowed(required []Role, actor Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if r == actor {
			return true
		}
	}
	return false
}

// RequireRoles builds a role-gate guard from a required set.
func RequireRoles(required ...Role) Guard {
	return func(p Principal) Decision {
		if RoleAllowed(required, p.Role) {
			return allow()
		}
		return deny(ReasonAdminRequired)
	}
}

// Authorize runs guards in order and returns the first deny, or an allow
// when every guard passes.
func Authorize(p Principal, guards ...Guard) Decision {
	for _, g := range guards {
		if d := g(p); !d.Allowed {
			return d
		}
	}
	return allow()
}

// CanMutate decides whether an actor may run op against the record owned by
// targetID. Ownership wins before the role-gate for updates: a non-admin
// acting on their own record is allowed. Deletion is admin-only and
// self-deletion is always forbidden, admin or not.
func CanMutate(actorID string, actorRole Role, targetID string, op MutationOp) Decision {
	switch op {
	case OpUpdate:
		if actorID == targetID {
			return allow()
		}
		if actorRole == RoleAdmin {
			return allow()
		}
		return deny(ReasonNotOwner)
	case OpDelete:
		if actorID == targetID {
			return deny(ReasonSelfDelete)
		}
		if actorRole != RoleAdmin {
			return deny(ReasonAdminRequired)
		}
		return allow()
	default:
		return deny(ReasonAdminRequired)
	}
}
