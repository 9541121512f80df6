package domain

import (
	"context"

	aldomain "confsrv/internal/services/actionlog/domain"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Reader
	// Get returns one setting to a PC member or chair
	Get(ctx context.Context, contactID int64, name string) (Setting, error)
	// Save writes or deletes a setting for a chair; the result is nil after a delete
	Save(ctx context.Context, who aldomain.Actor, name string, in SaveInput) (*Setting, error)
}
