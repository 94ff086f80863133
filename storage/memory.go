package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/prognoshealth/employees/employee"
)

// Memory is an in-process employee.Store with the same conditional write
// semantics as Dynamo. It backs the local server and tests.
type Memory struct {
	mu    sync.RWMutex
	items map[string]employee.Employee
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{items: map[string]employee.Employee{}}
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.items)
}

// Put implements employee.Store.
func (m *Memory) Put(_ context.Context, e employee.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[e.ID]; ok {
		return errors.Wrapf(employee.ErrConditionFailed, "employee %s exists", e.ID)
	}

	m.items[e.ID] = e
	return nil
}

// Get implements employee.Store.
func (m *Memory) Get(_ context.Context, id string) (*employee.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.items[id]
	if !ok {
		return nil, nil
	}

	return &e, nil
}

// holds reports whether the record exists and, with an owner, belongs to it.
// Callers hold the lock.
func (m *Memory) holds(id string, owner string) (employee.Employee, bool) {
	e, ok := m.items[id]
	if !ok || (owner != "" && e.OwnerID != owner) {
		return employee.Employee{}, false
	}

	return e, true
}

// Update implements employee.Store.
func (m *Memory) Update(_ context.Context, id string, changes employee.Changes, owner string) (*employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.holds(id, owner)
	if !ok {
		return nil, errors.Wrapf(employee.ErrConditionFailed, "update of employee %s", id)
	}

	if changes.Name != nil {
		e.Name = *changes.Name
	}
	if changes.Role != nil {
		e.Role = *changes.Role
	}
	e.UpdatedAt = changes.UpdatedAt

	m.items[id] = e
	return &e, nil
}

// Delete implements employee.Store.
func (m *Memory) Delete(_ context.Context, id string, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.holds(id, owner); !ok {
		return errors.Wrapf(employee.ErrConditionFailed, "delete of employee %s", id)
	}

	delete(m.items, id)
	return nil
}

// List implements employee.Store. Records are returned in id order, filtered
// by owner before the limit is applied.
func (m *Memory) List(_ context.Context, owner string, limit int) ([]employee.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	items := []employee.Employee{}
	for _, id := range ids {
		if len(items) >= limit {
			break
		}

		e := m.items[id]
		if owner != "" && e.OwnerID != owner {
			continue
		}
		items = append(items, e)
	}

	return items, nil
}
