package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is an immutable snapshot of a product at order time.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Subtotal  float64            `bson:"subtotal" json:"subtotal"`
}

// ShippingAddress is the address snapshot embedded in an order.
type ShippingAddress struct {
	Recipient  string `bson:"recipient" json:"recipient"`
	Phone      string `bson:"phone" json:"phone"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	City       string `bson:"city" json:"city"`
	District   string `bson:"district" json:"district"`
	Line1      string `bson:"line1" json:"line1"`
	Line2      string `bson:"line2,omitempty" json:"line2,omitempty"`
}

type PaymentMethod string

const (
	PaymentLinePay      PaymentMethod = "line_pay"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCOD          PaymentMethod = "cod"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentLinePay, PaymentBankTransfer, PaymentCOD:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Order is the persisted order document. Orders are append-only history:
// status and tracking fields mutate through Transition, nothing is deleted.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber     string             `bson:"orderNumber" json:"orderNumber"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	ShippingFee     float64            `bson:"shippingFee" json:"shippingFee"`
	Discount        float64            `bson:"discount" json:"discount"`
	Total           float64            `bson:"total" json:"total"`
	CouponCode      string             `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	Status          OrderStatus        `bson:"status" json:"status"`
	PaymentMethod   PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus   PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	TrackingNumber  string             `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	CancelReason    string             `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	ShippedAt       *time.Time         `bson:"shippedAt,omitempty" json:"shippedAt,omitempty"`
	CompletedAt     *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CancelledAt     *time.Time         `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
}

// InvalidTransitionError reports a status change the transition table forbids.
// Re-requesting the current status fails the same way.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition: %s -> %s", e.From, e.To)
}

// Transition moves the order to the next status, stamping the matching
// timestamp exactly once and keeping paymentStatus in sync. The order is left
// unchanged when the transition is rejected.
func (o *Order) Transition(next OrderStatus, now time.Time) error {
	if !o.Status.CanTransitionTo(next) {
		return InvalidTransitionError{From: o.Status, To: next}
	}

	switch next {
	case OrderStatusPaid:
		o.PaidAt = &now
		o.PaymentStatus = PaymentStatusPaid
	case OrderStatusShipped:
		o.ShippedAt = &now
	case OrderStatusCompleted:
		o.CompletedAt = &now
	case OrderStatusCancelled:
		o.CancelledAt = &now
	case OrderStatusRefunded:
		o.PaymentStatus = PaymentStatusRefunded
	}

	o.Status = next
	return nil
}

// CustomerCanCancel reports whether a customer may still request cancellation.
// Customers only ever cancel; every other transition is admin-only.
func (o *Order) CustomerCanCancel() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusPaid
}
