// Package vehicle provides the Vehicle catalog and its lifecycle tracker.
//
// A vehicle carries two state fields with distinct lifecycles:
//
//   - PurchaseStatus: listing -> purchased (attached vendor acquisition)
//   - Status: in_stock -> reserved -> sold (sale lifecycle)
//
// Both are guarded by explicit transition tables. Status never reaches
// "sold" through a direct edit; only the sale ledger performs that move.
package vehicle

import (
	"context"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/entity"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/types"
)

// PurchaseStatus tracks whether the vehicle is a bare listing or an owned unit.
type PurchaseStatus string

const (
	// PurchaseListing is a vehicle listed without a recorded acquisition.
	PurchaseListing PurchaseStatus = "listing"
	// PurchasePurchased is a vehicle acquired from a vendor via the purchase ledger.
	PurchasePurchased PurchaseStatus = "purchased"
)

// Status tracks the sale-side lifecycle of the vehicle.
type Status string

const (
	StatusInStock  Status = "in_stock"
	StatusReserved Status = "reserved"
	StatusSold     Status = "sold"
)

// statusTransitions is the allowed transition table for Status.
// Moves into "sold" and "reserved" are reserved for the sale ledger;
// the service layer rejects them on direct edits.
var statusTransitions = map[Status]map[Status]bool{
	StatusInStock:  {StatusReserved: true, StatusSold: true},
	StatusReserved: {StatusInStock: true, StatusSold: true},
	StatusSold:     {StatusInStock: true}, // release after sale deletion
}

// CanTransition reports whether moving from -> to is a legal Status move.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	return statusTransitions[from][to]
}

// Vehicle represents an inventory unit or marketplace listing.
type Vehicle struct {
	entity.Catalog

	// Brand/Model/Variant describe the vehicle; Name holds the display title.
	Brand   string `db:"brand" json:"brand"`
	Model   string `db:"model" json:"model"`
	Variant string `db:"variant" json:"variant,omitempty"`

	// Year of manufacture
	Year int `db:"year" json:"year,omitempty"`

	// RegistrationNo is the plate number
	RegistrationNo string `db:"registration_no" json:"registrationNo,omitempty"`

	// PurchasePrice is the acquisition price (set when purchased)
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`

	// SellingPrice is the asking price
	SellingPrice types.Money `db:"selling_price" json:"sellingPrice"`

	// PurchaseStatus: listing or purchased
	PurchaseStatus PurchaseStatus `db:"purchase_status" json:"purchaseStatus"`

	// Status: in_stock, reserved or sold
	Status Status `db:"status" json:"status"`

	// VendorID is set if and only if PurchaseStatus is purchased
	VendorID *id.ID `db:"vendor_id" json:"vendorId,omitempty"`

	// IsPublic controls marketplace visibility
	IsPublic bool `db:"is_public" json:"isPublic"`
}

// NewVehicle creates a new vehicle as a listing in stock.
func NewVehicle(code, name, brand, model string) *Vehicle {
	return &Vehicle{
		Catalog:        entity.NewCatalog(code, name),
		Brand:          brand,
		Model:          model,
		PurchaseStatus: PurchaseListing,
		Status:         StatusInStock,
	}
}

// Validate implements entity.Validatable.
func (v *Vehicle) Validate(ctx context.Context) error {
	if err := v.Catalog.Validate(ctx); err != nil {
		return err
	}

	if v.Brand == "" {
		return apperror.NewValidation("brand is required").
			WithDetail("field", "brand")
	}
	if v.Model == "" {
		return apperror.NewValidation("model is required").
			WithDetail("field", "model")
	}

	switch v.PurchaseStatus {
	case PurchaseListing, PurchasePurchased:
	default:
		return apperror.NewValidation("invalid purchase status").
			WithDetail("field", "purchaseStatus").
			WithDetail("value", string(v.PurchaseStatus))
	}

	switch v.Status {
	case StatusInStock, StatusReserved, StatusSold:
	default:
		return apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(v.Status))
	}

	// vendor_id is set if and only if the vehicle is purchased
	if v.PurchaseStatus == PurchasePurchased && (v.VendorID == nil || id.IsNil(*v.VendorID)) {
		return apperror.NewValidation("purchased vehicle requires a vendor").
			WithDetail("field", "vendorId")
	}
	if v.PurchaseStatus == PurchaseListing && v.VendorID != nil {
		return apperror.NewValidation("listing vehicle must not reference a vendor").
			WithDetail("field", "vendorId")
	}

	return nil
}

// IsPurchased reports whether the vehicle has an attached acquisition.
func (v *Vehicle) IsPurchased() bool {
	return v.PurchaseStatus == PurchasePurchased
}

// MarkPurchased attaches a vendor acquisition to the vehicle.
// Fails if the price is not positive, the vendor is absent,
// or the vehicle is already purchased.
func (v *Vehicle) MarkPurchased(vendorID id.ID, price types.Money) error {
	if id.IsNil(vendorID) {
		return apperror.NewValidation("vendor is required to mark a vehicle purchased").
			WithDetail("field", "vendorId")
	}
	if !price.IsPositive() {
		return apperror.NewValidation("purchase price must be positive").
			WithDetail("field", "purchasePrice").
			WithDetail("value", price.String())
	}
	if v.IsPurchased() {
		return apperror.NewConflict("vehicle is already purchased").
			WithDetail("vehicle_id", v.ID.String())
	}

	v.PurchaseStatus = PurchasePurchased
	v.VendorID = &vendorID
	v.PurchasePrice = price
	return nil
}

// MarkSold moves the vehicle into sold or reserved.
// Only the sale ledger calls this; direct edits are rejected by the service.
func (v *Vehicle) MarkSold(target Status) error {
	if target != StatusSold && target != StatusReserved {
		return apperror.NewForbiddenTransition("vehicle", string(v.Status), string(target))
	}
	if !CanTransition(v.Status, target) {
		return apperror.NewForbiddenTransition("vehicle", string(v.Status), string(target))
	}
	v.Status = target
	return nil
}

// Release returns the vehicle to stock after its sale is deleted.
func (v *Vehicle) Release() {
	if v.Status == StatusInStock {
		return
	}
	v.Status = StatusInStock
}

// RevertToListing detaches the vendor and demotes the vehicle to a listing.
// Called only when the attached purchase is deleted with zero payments.
func (v *Vehicle) RevertToListing() {
	v.PurchaseStatus = PurchaseListing
	v.VendorID = nil
	v.IsPublic = false
}
