package employee

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Request is the typed input every handler receives.
type Request struct {
	Params   map[string]string
	Payload  interface{}
	CallerID string
}

// Result is a successful handler outcome.
type Result struct {
	StatusCode int
	Body       interface{}
}

// Handler is implemented by each of the five resource operations.
type Handler interface {
	Handle(ctx context.Context, req Request) (Result, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req Request) (Result, error)

// Handle calls f(ctx, req).
func (f HandlerFunc) Handle(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}

// Service implements the resource handlers on top of a Store.
type Service struct {
	store       Store
	requireAuth bool

	nowFunc   func() time.Time
	newIDFunc func() (string, error)
}

// NewService returns a Service. When requireAuth is set records are owned by
// the caller that created them.
func NewService(store Store, requireAuth bool) *Service {
	return &Service{
		store:       store,
		requireAuth: requireAuth,
	}
}

// RequireAuth reports whether the authenticated variant is active.
func (s *Service) RequireAuth() bool {
	return s.requireAuth
}

// now is used internally to assist stubs on time.Now() for testing
func (s *Service) now() time.Time {
	if s.nowFunc != nil {
		return s.nowFunc()
	}

	return time.Now()
}

// newID returns a time ordered unique id whose string form sorts by creation
// time.
func (s *Service) newID() (string, error) {
	if s.newIDFunc != nil {
		return s.newIDFunc()
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", errors.Wrap(err, "failed generating employee id")
	}

	return id.String(), nil
}

// owner returns the ownership precondition for the request, empty in the
// unauthenticated variant.
func (s *Service) owner(req Request) (string, error) {
	if !s.requireAuth {
		return "", nil
	}

	if req.CallerID == "" {
		return "", Unauthorized("Unauthorized")
	}

	return req.CallerID, nil
}

// Create stores a new employee. The clientToken, when supplied, becomes the
// id so that a retried create is rejected as a conflict.
func (s *Service) Create(ctx context.Context, req Request) (Result, error) {
	owner, err := s.owner(req)
	if err != nil {
		return Result{}, err
	}

	input, err := ValidateCreate(req.Payload)
	if err != nil {
		return Result{}, err
	}

	id := input.ClientToken
	if id == "" {
		if id, err = s.newID(); err != nil {
			return Result{}, err
		}
	}

	now := Timestamp(s.now())
	e := Employee{
		ID:        id,
		Name:      input.Name,
		Role:      input.Role,
		OwnerID:   owner,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Put(ctx, e); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return Result{}, Conflict("Employee already exists")
		}
		return Result{}, errors.WithMessagef(err, "failed creating employee %s", id)
	}

	return Result{StatusCode: http.StatusCreated, Body: e}, nil
}

// List returns up to ListLimit employees, only the caller's in the
// authenticated variant.
func (s *Service) List(ctx context.Context, req Request) (Result, error) {
	owner, err := s.owner(req)
	if err != nil {
		return Result{}, err
	}

	items, err := s.store.List(ctx, owner, ListLimit)
	if err != nil {
		return Result{}, errors.WithMessage(err, "failed listing employees")
	}

	if items == nil {
		items = []Employee{}
	}

	return Result{StatusCode: http.StatusOK, Body: items}, nil
}

// Get returns one employee. A record owned by someone else is reported as
// access denied, not as missing.
func (s *Service) Get(ctx context.Context, req Request) (Result, error) {
	owner, err := s.owner(req)
	if err != nil {
		return Result{}, err
	}

	id := req.Params["id"]
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return Result{}, errors.WithMessagef(err, "failed getting employee %s", id)
	}

	if e == nil {
		return Result{}, NotFound("Employee not found")
	}

	if s.requireAuth && e.OwnerID != owner {
		return Result{}, AccessDenied("Access denied")
	}

	return Result{StatusCode: http.StatusOK, Body: *e}, nil
}

// Update overwrites the supplied name and/or role and refreshes updatedAt.
//
// In the authenticated variant a read checks existence and ownership first so
// the caller gets a not found instead of a bare condition failure. The read
// and the conditional write are separate round trips; the write's condition is
// what actually guards the record.
func (s *Service) Update(ctx context.Context, req Request) (Result, error) {
	owner, err := s.owner(req)
	if err != nil {
		return Result{}, err
	}

	changes, err := ValidateUpdate(req.Payload)
	if err != nil {
		return Result{}, err
	}

	id := req.Params["id"]
	now := s.now()

	if s.requireAuth {
		current, err := s.store.Get(ctx, id)
		if err != nil {
			return Result{}, errors.WithMessagef(err, "failed checking employee %s", id)
		}

		if current == nil || current.OwnerID != owner {
			return Result{}, NotFound("Employee not found")
		}

		// keep updatedAt non decreasing when the clock is behind the record
		if prev, perr := time.Parse(TimestampFormat, current.UpdatedAt); perr == nil && now.Before(prev) {
			now = prev
		}
	}

	changes.UpdatedAt = Timestamp(now)

	updated, err := s.store.Update(ctx, id, changes, owner)
	if err != nil {
		if s.requireAuth && errors.Is(err, ErrConditionFailed) {
			return Result{}, NotFound("Employee not found")
		}
		return Result{}, errors.WithMessagef(err, "failed updating employee %s", id)
	}

	return Result{StatusCode: http.StatusOK, Body: *updated}, nil
}

// Delete removes an employee in a single conditional write.
func (s *Service) Delete(ctx context.Context, req Request) (Result, error) {
	owner, err := s.owner(req)
	if err != nil {
		return Result{}, err
	}

	id := req.Params["id"]
	if err := s.store.Delete(ctx, id, owner); err != nil {
		if s.requireAuth && errors.Is(err, ErrConditionFailed) {
			return Result{}, NotFound("Employee not found")
		}
		return Result{}, errors.WithMessagef(err, "failed deleting employee %s", id)
	}

	return Result{StatusCode: http.StatusNoContent}, nil
}
