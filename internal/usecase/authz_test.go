package usecase

import (
	"testing"

	"github.com/you/teamboard/internal/domain"
)

func TestCanDeleteTask(t *testing.T) {
	task := domain.Task{ID: 1, TeamID: 10, CreatedBy: 100}

	cases := []struct {
		name string
		m    domain.Membership
		want bool
	}{
		{"creator member", domain.Membership{TeamID: 10, UserID: 100, Role: domain.RoleMember}, true},
		{"creator admin", domain.Membership{TeamID: 10, UserID: 100, Role: domain.RoleAdmin}, true},
		{"admin not creator", domain.Membership{TeamID: 10, UserID: 200, Role: domain.RoleAdmin}, true},
		{"member not creator", domain.Membership{TeamID: 10, UserID: 200, Role: domain.RoleMember}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := CanDeleteTask(task, tc.m)
			if d.Allow != tc.want {
				t.Fatalf("got allow=%v want %v (reason %q)", d.Allow, tc.want, d.Reason)
			}
			if !d.Allow && d.Reason == "" {
				t.Fatalf("deny decision must carry a reason")
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	if d := RequireAdmin(domain.Membership{Role: domain.RoleAdmin}); !d.Allow {
		t.Fatalf("admin denied: %s", d.Reason)
	}
	if d := RequireAdmin(domain.Membership{Role: domain.RoleMember}); d.Allow {
		t.Fatalf("member allowed admin action")
	}
}
