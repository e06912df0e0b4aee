package event

import "context"

// Repository defines the persistence collaborator for events.
type Repository interface {
	// ListByDate returns all events with StartDate <= date <= EndDate.
	ListByDate(ctx context.Context, date string) ([]*Event, error)

	// ListByRange returns all events touching the inclusive date range.
	ListByRange(ctx context.Context, from, to string) ([]*Event, error)

	// ListAll returns every stored event.
	ListAll(ctx context.Context) ([]*Event, error)

	// Get retrieves an event by ID.
	// Returns ErrEventNotFound if no event has that ID.
	Get(ctx context.Context, id int64) (*Event, error)

	// Create stores a new event and sets its ID.
	Create(ctx context.Context, e *Event) error

	// Update replaces the stored fields of e.ID.
	// Returns ErrEventNotFound if no event has that ID.
	Update(ctx context.Context, e *Event) error

	// Delete removes an event.
	// Returns ErrEventNotFound if no event has that ID.
	Delete(ctx context.Context, id int64) error

	// Close releases any resources held by the repository.
	Close() error
}
