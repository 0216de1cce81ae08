package gateway

import (
	"context"
	"fmt"

	"github.com/kingrea/loomboard/internal/track"
)

// Users lists every account; the board uses it for assignee pickers and the
// admin panel for the user table.
func (c *Client) Users(ctx context.Context) ([]track.User, error) {
	var users []track.User
	if err := c.do(ctx, "GET", "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser removes an account. The service refuses self-deletion and
// non-admin callers with a message the APIError carries verbatim.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/users/%d", id), nil, nil)
}
