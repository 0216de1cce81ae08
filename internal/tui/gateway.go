package tui

import (
	"context"

	"github.com/kingrea/loomboard/internal/gateway"
	"github.com/kingrea/loomboard/internal/track"
)

// Gateway is the slice of the remote sync gateway the TUI consumes. The
// real implementation is *gateway.Client; tests substitute a fake so every
// view can be driven without a server.
type Gateway interface {
	Login(ctx context.Context, creds gateway.Credentials) (string, error)
	Register(ctx context.Context, req gateway.RegisterRequest) (string, error)
	Me(ctx context.Context) (track.User, error)

	Projects(ctx context.Context) ([]track.Project, error)
	Project(ctx context.Context, id int64) (track.Project, error)
	CreateProject(ctx context.Context, name, description string) (track.Project, error)
	DeleteProject(ctx context.Context, id int64) error

	TicketsByProject(ctx context.Context, projectID int64) ([]track.Ticket, error)
	CreateTicket(ctx context.Context, req gateway.CreateTicketRequest) (track.Ticket, error)
	UpdateTicket(ctx context.Context, id int64, req gateway.UpdateTicketRequest) (track.Ticket, error)
	UpdateTicketStatus(ctx context.Context, id int64, status track.Status) error
	DeleteTicket(ctx context.Context, id int64) error

	Comments(ctx context.Context, ticketID int64) ([]track.Comment, error)
	AddComment(ctx context.Context, ticketID int64, text string) (track.Comment, error)

	Users(ctx context.Context) ([]track.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

var _ Gateway = (*gateway.Client)(nil)
