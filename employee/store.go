package employee

import "context"

// Store is the storage client the handlers depend on. Conditional operations
// return an error wrapping ErrConditionFailed when their precondition does
// not hold.
type Store interface {
	// Put writes e only if no record with e.ID exists.
	Put(ctx context.Context, e Employee) error

	// Get returns the record for id, or nil when there is none.
	Get(ctx context.Context, id string) (*Employee, error)

	// Update applies changes to an existing record and returns the record as
	// stored afterwards. A non empty owner additionally requires the stored
	// ownerId to equal it.
	Update(ctx context.Context, id string, changes Changes, owner string) (*Employee, error)

	// Delete removes an existing record. A non empty owner additionally
	// requires the stored ownerId to equal it.
	Delete(ctx context.Context, id string, owner string) error

	// List scans at most limit records, keeping only those owned by owner
	// when owner is non empty.
	List(ctx context.Context, owner string, limit int) ([]Employee, error)
}
