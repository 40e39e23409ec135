package model

import (
	"strings"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPackaging   OrderStatus = "Packaging"
	StatusReadyToSend OrderStatus = "Ready to Send"
	StatusOnDelivery  OrderStatus = "On Delivery"
	StatusDone        OrderStatus = "Done"
	StatusCanceled    OrderStatus = "Canceled"
)

// nextStatus encodes the single legal forward step per status. Terminal
// states (Done, Canceled) have no entry. Canceled is reachable only through
// the gated cancellation path, never via an advance.
var nextStatus = map[OrderStatus]OrderStatus{
	StatusPackaging:   StatusReadyToSend,
	StatusReadyToSend: StatusOnDelivery,
	StatusOnDelivery:  StatusDone,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPackaging, StatusReadyToSend, StatusOnDelivery, StatusDone, StatusCanceled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDone || s == StatusCanceled
}

// Next returns the only legal forward transition, if any.
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := nextStatus[s]
	return next, ok
}

// CanAdvanceTo reports whether target is the legal next step. No skipping,
// no going back.
func (s OrderStatus) CanAdvanceTo(target OrderStatus) bool {
	next, ok := nextStatus[s]
	return ok && next == target
}

// VariantSelection is one chosen option on a named variant group. Orders
// carry these structured pairs instead of relying on substring matching
// against a display string.
type VariantSelection struct {
	Group  string `json:"group"`
	Option string `json:"option" validate:"required"`
}

type VariantSelections []VariantSelection

// Label renders the selections in the display form recorded on the order
// row, e.g. "Warna: Merah, Size: L".
func (s VariantSelections) Label() string {
	parts := make([]string, 0, len(s))
	for _, sel := range s {
		if sel.Group == "" {
			parts = append(parts, sel.Option)
			continue
		}
		parts = append(parts, sel.Group+": "+sel.Option)
	}
	return strings.Join(parts, ", ")
}

// ParseVariantLabel reverses Label for rows loaded from storage. Parts
// without a group separator become group-less selections matched against
// every variant group.
func ParseVariantLabel(label string) VariantSelections {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil
	}
	var sels VariantSelections
	for _, part := range strings.Split(label, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if group, option, found := strings.Cut(part, ":"); found {
			sels = append(sels, VariantSelection{
				Group:  strings.TrimSpace(group),
				Option: strings.TrimSpace(option),
			})
			continue
		}
		sels = append(sels, VariantSelection{Option: part})
	}
	return sels
}

// Order references exactly one product and keeps a denormalized snapshot of
// its name and price, so later product edits never change historical totals.
// Rows are never physically deleted; cancellation is a status change.
type Order struct {
	BaseModel
	ProductID        uuid.UUID   `gorm:"column:id_product;type:uuid;not null" json:"id_product" validate:"uuid_required"`
	SellerID         *string     `gorm:"column:seller_id;type:varchar(255);index" json:"seller_id,omitempty"`
	ProductName      string      `gorm:"column:product_name;type:varchar(255);not null" json:"product_name"`
	ProductPrice     int64       `gorm:"column:product_price" json:"product_price"`
	Quantity         int         `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	TotalPrice       int64       `gorm:"column:total_price" json:"total_price"`
	BuyerName        string      `gorm:"column:buyer_name;type:varchar(255)" json:"buyer_name" validate:"required"`
	BuyerPhone       string      `gorm:"column:buyer_phone;type:varchar(30)" json:"buyer_phone" validate:"required"`
	BuyerLocation    string      `gorm:"column:buyer_location" json:"buyer_location" validate:"required"`
	SelectedVariants string      `gorm:"column:selected_variants" json:"selected_variants,omitempty"`
	PaymentMethod    string      `gorm:"column:payment_method;type:varchar(30)" json:"payment_method"`
	Status           OrderStatus `gorm:"type:varchar(20);default:'Packaging'" json:"status"`
	CancelReason     string      `gorm:"column:cancel_reason" json:"cancel_reason,omitempty"`
}

// Selections recovers the structured variant choices from the stored label.
func (o *Order) Selections() VariantSelections {
	return ParseVariantLabel(o.SelectedVariants)
}

// OwnedBy reports whether sellerID may act on this order. Orders without a
// seller reference are open to any caller (local single-tenant mode).
func (o *Order) OwnedBy(sellerID string) bool {
	if o.SellerID == nil || *o.SellerID == "" || sellerID == "" {
		return true
	}
	return *o.SellerID == sellerID
}
