package usecase

import "github.com/you/teamboard/internal/domain"

// Decision is the result of an authorization check. Deny decisions carry
// the reason for the audit log; clients only ever see a generic 403.
type Decision struct {
	Allow  bool
	Reason string
}

func allow() Decision { return Decision{Allow: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// CanDeleteTask allows the task's creator or an admin of the task's team.
// The two predicates are independent; either one is sufficient on its own.
func CanDeleteTask(task domain.Task, m domain.Membership) Decision {
	if task.CreatedBy == m.UserID {
		return allow()
	}
	if m.Role == domain.RoleAdmin {
		return allow()
	}
	return deny("not task creator or team admin")
}

// RequireAdmin gates team mutation and member management.
func RequireAdmin(m domain.Membership) Decision {
	if m.Role == domain.RoleAdmin {
		return allow()
	}
	return deny("admin role required")
}
