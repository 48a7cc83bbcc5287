package entity

import (
	"context"
	"time"

	"dealerdesk/internal/core/id"
)

// Validatable is implemented by every catalog and document entity. Validate
// checks internal invariants only; anything that needs the database belongs
// in a service hook.
type Validatable interface {
	Validate(ctx context.Context) error
}

///////////////////
// Base Entity   //
///////////////////

// BaseEntity carries the columns every row has.
//
// OwnerID scopes the record to a dealer account. It is assigned by the
// repository from the request identity, never by domain code, and every
// query filters on it. Version backs optimistic locking: the repository
// increments it on each UPDATE and rejects writes against a stale value.
type BaseEntity struct {
	ID           id.ID  `db:"id" json:"id"`
	OwnerID      string `db:"owner_id" json:"-"`
	DeletionMark bool   `db:"deletion_mark" json:"deletionMark"`
	Version      int    `db:"version" json:"version"`
}

// NewBaseEntity returns a fresh entity with a generated UUIDv7 and version 1.
func NewBaseEntity() BaseEntity {
	return BaseEntity{
		ID:      id.New(),
		Version: 1,
	}
}

// SetVersion syncs the in-memory version after the repository bumped the row.
func (b *BaseEntity) SetVersion(v int) {
	b.Version = v
}

///////////////
// Documents //
///////////////

// BaseDocument adds audit timestamps. Ledger documents (purchases, sales)
// embed it; UpdatedAt is maintained by the repository on every write.
type BaseDocument struct {
	BaseEntity

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy,omitempty"`
}

// NewBaseDocument returns a fresh document stamped with the current time.
func NewBaseDocument() BaseDocument {
	now := time.Now().UTC()
	return BaseDocument{
		BaseEntity: NewBaseEntity(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

//////////////
// Catalogs //
//////////////

// BaseCatalog is the entity base for reference data. Catalogs carry no audit
// timestamps.
type BaseCatalog struct {
	BaseEntity
}

// NewBaseCatalog returns a fresh catalog entity.
func NewBaseCatalog() BaseCatalog {
	return BaseCatalog{
		BaseEntity: NewBaseEntity(),
	}
}
