package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/kingrea/loomboard/internal/track"
)

// CreateTicketRequest is the POST /tickets payload. AssignedToUserID stays
// nil to let the service default to "assign to caller".
type CreateTicketRequest struct {
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Priority         track.Priority `json:"priority"`
	AssignedToUserID *int64         `json:"assignedToUserId"`
	ProjectID        int64          `json:"projectId"`
}

// Validate catches local form errors before any network call is issued.
func (r CreateTicketRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !r.Priority.Valid() {
		return fmt.Errorf("priority %q is not one of LOW, MEDIUM, HIGH", r.Priority)
	}
	return nil
}

// UpdateTicketRequest is the PUT /tickets/{id} payload: full-field
// replacement of the editable attributes.
type UpdateTicketRequest struct {
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Priority         track.Priority `json:"priority"`
	AssignedToUserID *int64         `json:"assignedToUserId"`
}

// Validate mirrors the create-side checks for the edit form.
func (r UpdateTicketRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !r.Priority.Valid() {
		return fmt.Errorf("priority %q is not one of LOW, MEDIUM, HIGH", r.Priority)
	}
	return nil
}

// TicketsByProject fetches the full work item set for one project.
func (c *Client) TicketsByProject(ctx context.Context, projectID int64) ([]track.Ticket, error) {
	var tickets []track.Ticket
	if err := c.do(ctx, "GET", fmt.Sprintf("/tickets/project/%d", projectID), nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// CreateTicket submits a new ticket and returns the created entity.
func (c *Client) CreateTicket(ctx context.Context, req CreateTicketRequest) (track.Ticket, error) {
	var ticket track.Ticket
	if err := req.Validate(); err != nil {
		return ticket, err
	}
	if err := c.do(ctx, "POST", "/tickets", req, &ticket); err != nil {
		return ticket, err
	}
	return ticket, nil
}

// UpdateTicket replaces the editable fields of an existing ticket.
func (c *Client) UpdateTicket(ctx context.Context, id int64, req UpdateTicketRequest) (track.Ticket, error) {
	var ticket track.Ticket
	if err := req.Validate(); err != nil {
		return ticket, err
	}
	if err := c.do(ctx, "PUT", fmt.Sprintf("/tickets/%d", id), req, &ticket); err != nil {
		return ticket, err
	}
	return ticket, nil
}

// UpdateTicketStatus is the endpoint drag transitions hit: it patches only
// the status field.
func (c *Client) UpdateTicketStatus(ctx context.Context, id int64, status track.Status) error {
	body := struct {
		Status track.Status `json:"status"`
	}{Status: status}
	return c.do(ctx, "PATCH", fmt.Sprintf("/tickets/%d/status", id), body, nil)
}

// DeleteTicket removes a ticket. The service may refuse with a
// domain-specific message (e.g. insufficient permission) which the APIError
// carries verbatim.
func (c *Client) DeleteTicket(ctx context.Context, id int64) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/tickets/%d", id), nil, nil)
}

// Comments lists a ticket's comments in the service's own order; the client
// applies no sort (server ordering is authoritative).
func (c *Client) Comments(ctx context.Context, ticketID int64) ([]track.Comment, error) {
	var comments []track.Comment
	if err := c.do(ctx, "GET", fmt.Sprintf("/tickets/%d/comments", ticketID), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment appends a remark to a ticket. Empty or whitespace-only text is
// rejected locally with no network call.
func (c *Client) AddComment(ctx context.Context, ticketID int64, text string) (track.Comment, error) {
	var comment track.Comment
	if strings.TrimSpace(text) == "" {
		return comment, fmt.Errorf("comment text is required")
	}
	body := struct {
		Text string `json:"text"`
	}{Text: text}
	if err := c.do(ctx, "POST", fmt.Sprintf("/tickets/%d/comments", ticketID), body, &comment); err != nil {
		return comment, err
	}
	return comment, nil
}
