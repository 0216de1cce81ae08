package track

import "testing"

func TestStatusValid(t *testing.T) {
	for _, s := range Columns {
		if !s.Valid() {
			t.Fatalf("column status %s reported invalid", s)
		}
	}
	if Status("ARCHIVED").Valid() {
		t.Fatalf("unknown status reported valid")
	}
}

func TestPriorityValid(t *testing.T) {
	for _, p := range Priorities {
		if !p.Valid() {
			t.Fatalf("priority %s reported invalid", p)
		}
	}
	if Priority("URGENT").Valid() {
		t.Fatalf("unknown priority reported valid")
	}
}

func TestUserFullNameFallsBackToEmail(t *testing.T) {
	u := User{Email: "ada@example.com"}
	if got := u.FullName(); got != "ada@example.com" {
		t.Fatalf("FullName = %q", got)
	}
	u.FirstName = "Ada"
	u.LastName = "Lovelace"
	if got := u.FullName(); got != "Ada Lovelace" {
		t.Fatalf("FullName = %q", got)
	}
}

func TestUserIsAdmin(t *testing.T) {
	u := User{Roles: []string{RoleUser}}
	if u.IsAdmin() {
		t.Fatalf("plain user reported admin")
	}
	u.Roles = append(u.Roles, RoleAdmin)
	if !u.IsAdmin() {
		t.Fatalf("admin role not detected")
	}
}

func TestAssigneeName(t *testing.T) {
	tk := Ticket{}
	if tk.AssigneeName() != "" {
		t.Fatalf("unassigned ticket has assignee name %q", tk.AssigneeName())
	}
	tk.AssignedTo = &User{FirstName: "Ada", LastName: "Lovelace"}
	if tk.AssigneeName() != "Ada Lovelace" {
		t.Fatalf("AssigneeName = %q", tk.AssigneeName())
	}
}
