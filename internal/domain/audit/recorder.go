// Package audit defines the contract for recording ledger mutations.
// The PostgreSQL implementation lives in infrastructure/storage/postgres.
package audit

import (
	"context"
	"encoding/json"

	"dealerdesk/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionPayment Action = "payment"
	ActionConvert Action = "convert"
)

// Entry is one audit record.
type Entry struct {
	EntityType string
	EntityID   id.ID
	Action     Action
	Changes    json.RawMessage
	Metadata   json.RawMessage
}

// Recorder persists audit entries. Recording is best-effort: callers log
// failures but never fail the business operation over them.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// NopRecorder discards entries. Used in tests.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(ctx context.Context, entry Entry) error { return nil }

var _ Recorder = NopRecorder{}
