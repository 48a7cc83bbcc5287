// Package leads provides the lead catalog and its conversion state machine.
package leads

import (
	"context"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/entity"
	"dealerdesk/internal/core/id"
)

// Type of a lead: what the counterparty wants to do with a vehicle.
type Type string

const (
	// TypeBuying converts into a customer
	TypeBuying Type = "buying"

	// TypeSelling converts into a vendor
	TypeSelling Type = "selling"
)

// Valid reports whether the type is one of the known values.
func (t Type) Valid() bool {
	return t == TypeBuying || t == TypeSelling
}

// Status of a lead in the pipeline.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusLost      Status = "lost"
)

// statusTransitions is the allowed pipeline movement table.
// Lost is terminal except for reopening to contacted.
var statusTransitions = map[Status][]Status{
	StatusNew:       {StatusContacted, StatusQualified, StatusLost},
	StatusContacted: {StatusQualified, StatusLost},
	StatusQualified: {StatusContacted, StatusLost},
	StatusLost:      {StatusContacted},
}

// CanTransition reports whether a lead may move between two statuses.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Lead represents a potential counterparty.
type Lead struct {
	entity.Catalog

	Type   Type   `db:"type" json:"type"`
	Status Status `db:"status" json:"status"`

	Phone string `db:"phone" json:"phone"`
	Email string `db:"email" json:"email,omitempty"`

	// VehicleInterest is free text: what they want to buy or sell
	VehicleInterest string `db:"vehicle_interest" json:"vehicleInterest,omitempty"`

	Comment string `db:"comment" json:"comment,omitempty"`

	// Converted is set exactly once; ConvertedRefID points at the
	// customer or vendor the conversion produced
	Converted      bool   `db:"converted" json:"converted"`
	ConvertedRefID *id.ID `db:"converted_ref_id" json:"convertedRefId,omitempty"`
}

// NewLead creates a lead at the start of the pipeline.
func NewLead(code, name string, leadType Type) *Lead {
	return &Lead{
		Catalog: entity.NewCatalog(code, name),
		Type:    leadType,
		Status:  StatusNew,
	}
}

// Validate implements entity.Validatable.
func (l *Lead) Validate(ctx context.Context) error {
	if err := l.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !l.Type.Valid() {
		return apperror.NewValidation("invalid lead type").
			WithDetail("field", "type").
			WithDetail("value", string(l.Type))
	}
	switch l.Status {
	case StatusNew, StatusContacted, StatusQualified, StatusLost:
	default:
		return apperror.NewValidation("invalid lead status").
			WithDetail("field", "status").
			WithDetail("value", string(l.Status))
	}
	if l.Phone == "" {
		return apperror.NewValidation("phone is required").
			WithDetail("field", "phone")
	}
	if l.Converted && l.ConvertedRefID == nil {
		return apperror.NewValidation("converted lead must reference its counterparty").
			WithDetail("field", "convertedRefId")
	}

	return nil
}

// ChangeStatus moves the lead through the pipeline table.
func (l *Lead) ChangeStatus(to Status) error {
	if !CanTransition(l.Status, to) {
		return apperror.NewForbiddenTransition("lead", string(l.Status), string(to))
	}
	if l.Status == to {
		return nil
	}
	l.Status = to
	return nil
}

// MarkConverted stamps the lead with the counterparty it produced.
func (l *Lead) MarkConverted(refID id.ID) error {
	if l.Converted {
		return apperror.NewAlreadyConverted(l.ID)
	}
	l.Converted = true
	l.ConvertedRefID = &refID
	l.Status = StatusQualified
	return nil
}
