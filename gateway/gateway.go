package gateway

import (
	"context"
	"fmt"

	"draftsync/domain"
)

// Gateway is the persistence contract the autosave engine needs from the
// backend. Every call is scoped to one authenticated user by construction;
// any call may fail with a generic persistence error.
type Gateway interface {
	Create(ctx context.Context, content string) (*domain.Document, error)
	Get(ctx context.Context, id uint64) (*domain.Document, error)
	Update(ctx context.Context, id uint64, patch domain.DocumentPatch) (*domain.Document, error)
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context) ([]domain.Document, error)
}

// StatusError is a backend rejection with its HTTP status and a body
// excerpt, for log lines and save-error messages.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend error: status=%d body=%s", e.Status, e.Body)
}
