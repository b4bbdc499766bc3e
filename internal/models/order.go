package models

import (
	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

// Order lifecycle states.
const (
	StatusPlaced         OrderStatus = "Placed"
	StatusPreparing      OrderStatus = "Preparing"
	StatusOutForDelivery OrderStatus = "OutForDelivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
)

// PaymentStatus values.
const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
	PaymentFailed  = "Failed"
)

// PaymentMethodCOD is the only payment method currently accepted.
const PaymentMethodCOD = "COD"

// orderTransitions is the legal forward-edge table. Delivered and Cancelled
// are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPlaced:         {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// Valid reports whether s is one of the five known statuses.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to target is a legal edge.
// Orders never regress; the only exit from Placed besides Preparing is
// Cancelled.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Order represents a placed purchase. After creation only OrderStatus is
// mutated, by admin status updates.
type Order struct {
	BaseModel
	UserID          uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	User            *User       `json:"user,omitempty"`
	Items           []OrderItem `json:"items,omitempty"`
	TotalAmount     float64     `json:"total_amount"`
	DeliveryAddress Address     `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery_address"`
	PhoneNumber     string      `json:"phone_number"`
	PaymentMethod   string      `json:"payment_method"`
	PaymentStatus   string      `json:"payment_status"`
	OrderStatus     OrderStatus `json:"order_status"`
}

// OrderItem is a single line of an order. ItemRef keeps the storefront menu
// item identifier; static menu items fall back to the item name.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ItemRef   string    `json:"item_id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	Image     string    `json:"image,omitempty"`
}
