// Package track holds the domain types shared by the gateway, the board
// controller and the TUI. The JSON shapes mirror the remote service's wire
// format: tickets embed user summaries for the assignee and creator, and an
// absent assignee is encoded as null (unassigned, not invalid).
package track

import (
	"strings"
	"time"
)

// Status is a ticket's board column. The column key on the board and the
// status value on the wire are deliberately the same closed set.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Columns is the board column order, left to right.
var Columns = []Status{StatusOpen, StatusInProgress, StatusDone}

// Valid reports whether s is one of the three board statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label returns the column heading for a status.
func (s Status) Label() string {
	switch s {
	case StatusOpen:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// Priority is a ticket's severity bucket.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities lists the selectable priorities in ascending severity.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the three priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Label returns the display label for a priority.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	}
	return string(p)
}

// Role labels as the service reports them.
const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// User is a read-only cached copy of a service account. The service is the
// system of record; the client never mutates users except via the admin
// delete endpoint.
type User struct {
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles,omitempty"`
}

// FullName returns "First Last", falling back to the email when both name
// fields are blank.
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// IsAdmin reports whether the user carries the admin role label.
func (u User) IsAdmin() bool {
	for _, r := range u.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// Project is the container a board belongs to.
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Ticket is one work item. Status is always one of the three enumerated
// values; AssignedTo is nil when the ticket is unassigned.
type Ticket struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	CreatedBy   *User     `json:"createdBy,omitempty"`
	AssignedTo  *User     `json:"assignedTo,omitempty"`
	Project     *Project  `json:"project,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// AssigneeName returns the assignee's display name, or empty when unassigned.
func (t Ticket) AssigneeName() string {
	if t.AssignedTo == nil {
		return ""
	}
	return t.AssignedTo.FullName()
}

// Comment is one immutable remark on a ticket. Ordering is whatever the
// service returns; the client applies no sort of its own.
type Comment struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedBy *User     `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
