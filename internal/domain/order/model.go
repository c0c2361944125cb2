package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by point lookups when no record matches.
var ErrNotFound = errors.New("order: not found")

// Delivery lifecycle states for a medicine order.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

var validStatuses = map[Status]bool{
	StatusPending:   true,
	StatusShipped:   true,
	StatusDelivered: true,
	StatusCancelled: true,
}

func (s Status) Valid() bool { return validStatuses[s] }

// MedicineOrder snapshots the medicine's name and unit price at order time.
// TotalPrice is computed once when the order is placed; later catalogue
// price changes never touch existing orders.
type MedicineOrder struct {
	ID      uuid.UUID `json:"id"`
	OwnerID string    `json:"owner_id"`

	MedicineID   uuid.UUID `json:"medicine_id"`
	MedicineName string    `json:"medicine_name"`
	PricePerUnit float64   `json:"price_per_unit"`

	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`

	CustomerName    string `json:"customer_name"`
	Phone           string `json:"phone,omitempty"`
	DeliveryAddress string `json:"delivery_address,omitempty"`
	Status          Status `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Partial carries a sparse update; nil fields are left untouched.
// Quantity changes recompute TotalPrice from the snapshotted unit price.
type Partial struct {
	Quantity        *int    `json:"quantity,omitempty"`
	CustomerName    *string `json:"customer_name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	DeliveryAddress *string `json:"delivery_address,omitempty"`
	Status          *Status `json:"status,omitempty"`
}

func (p Partial) apply(o *MedicineOrder) bool {
	changed := false
	if p.Quantity != nil {
		o.Quantity = *p.Quantity
		o.TotalPrice = float64(o.Quantity) * o.PricePerUnit
		changed = true
	}
	if p.CustomerName != nil {
		o.CustomerName, changed = *p.CustomerName, true
	}
	if p.Phone != nil {
		o.Phone, changed = *p.Phone, true
	}
	if p.DeliveryAddress != nil {
		o.DeliveryAddress, changed = *p.DeliveryAddress, true
	}
	if p.Status != nil {
		o.Status, changed = *p.Status, true
	}
	return changed
}
