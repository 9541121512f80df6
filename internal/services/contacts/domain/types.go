// Package domain holds the contact model the other services resolve viewers through
package domain

import (
	"context"
	"strings"

	"confsrv/internal/core/visibility"
)

// Contact is one row of contact_info
type Contact struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Roles     visibility.Role
}

// Viewer is the contact as the permission engine sees it
func (c Contact) Viewer() visibility.Viewer {
	return visibility.Viewer{ContactID: c.ID, Roles: c.Roles}
}

// Name is "First Last", falling back to the email when both are blank
func (c Contact) Name() string {
	if n := strings.TrimSpace(c.FirstName + " " + c.LastName); n != "" {
		return n
	}
	return c.Email
}

// Port resolves contacts for other modules
type Port interface {
	// Contact loads a contact; an unknown id is an Unauthorized error since ids
	// only arrive here from authenticated requests
	Contact(ctx context.Context, id int64) (Contact, error)
	Viewer(ctx context.Context, id int64) (visibility.Viewer, error)
}
