package domain

import (
	"reflect"
	"time"
)

// Entity is the shared identity and audit state embedded by every aggregate.
// The identity is assigned by the persistence layer on first commit; a zero
// ID means the aggregate has not been persisted yet.
type Entity struct {
	id        int64
	createdAt time.Time
	updatedAt *time.Time
	deleted   bool
}

func newEntity() Entity {
	return Entity{createdAt: time.Now().UTC()}
}

// ID returns the persistent identity, or 0 if not yet persisted.
func (e *Entity) ID() int64 {
	return e.id
}

// CreatedAt returns the construction timestamp (UTC).
func (e *Entity) CreatedAt() time.Time {
	return e.createdAt
}

// UpdatedAt returns the last modification timestamp, or nil if the
// aggregate has never been mutated since construction.
func (e *Entity) UpdatedAt() *time.Time {
	return e.updatedAt
}

// IsDeleted reports whether the aggregate is soft-deleted.
func (e *Entity) IsDeleted() bool {
	return e.deleted
}

// MarkDeleted soft-deletes the aggregate.
func (e *Entity) MarkDeleted() {
	e.deleted = true
	e.touch()
}

// MarkPersisted records the identity assigned by the persistence layer.
// It is called by the storage adapter after a successful insert.
func (e *Entity) MarkPersisted(id int64) {
	e.id = id
}

// touch refreshes the modification timestamp. Every successful mutation
// on an aggregate calls it.
func (e *Entity) touch() {
	now := time.Now().UTC()
	e.updatedAt = &now
}

// Aggregate is implemented by every domain entity carrying an Entity base.
type Aggregate interface {
	ID() int64
}

// Same reports whether two aggregates are the same entity: same concrete
// type and same non-zero identity. Unsaved aggregates are never equal.
func Same(a, b Aggregate) bool {
	if a == nil || b == nil {
		return false
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if a.ID() == 0 || b.ID() == 0 {
		return false
	}
	return a.ID() == b.ID()
}
