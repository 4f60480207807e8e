package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is anything with an identity and a lifetime. Staged products,
// canonical variants, decisions and sync runs all embed BaseEntity to
// satisfy it.
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity carries the identity and timestamps every persisted record
// shares. IDs are generated here, never by the database, so an aggregate
// can hand out its ID before it is first saved.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity returns a BaseEntity with a fresh ID and both timestamps
// set to now.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// Touch stamps the entity as modified. Mutators call it instead of
// writing UpdatedAt themselves.
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}
