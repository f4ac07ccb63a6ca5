package models

import "time"

// OrderItem snapshots product data at order time. It is intentionally
// decoupled from live product state: later price or category edits must not
// rewrite history.
type OrderItem struct {
	ProductID  string  `bson:"productId" json:"productId"`
	Name       string  `bson:"name" json:"name"`
	SKU        string  `bson:"sku" json:"sku"`
	Category   string  `bson:"category" json:"category"`
	Quantity   int     `bson:"quantity" json:"quantity"`
	UnitPrice  float64 `bson:"unitPrice" json:"unitPrice"`
	TotalPrice float64 `bson:"totalPrice" json:"totalPrice"`
}

// OrderCustomer captures the customer contact block of an order.
type OrderCustomer struct {
	Name    string `bson:"name" json:"name"`
	Email   string `bson:"email" json:"email"`
	Phone   string `bson:"phone" json:"phone"`
	Company string `bson:"company,omitempty" json:"company,omitempty"`
	TaxID   string `bson:"taxId,omitempty" json:"taxId,omitempty"`
}

// Address is a billing or shipping address block.
type Address struct {
	Name       string `bson:"name" json:"name"`
	Company    string `bson:"company,omitempty" json:"company,omitempty"`
	Address1   string `bson:"address1" json:"address1"`
	Address2   string `bson:"address2,omitempty" json:"address2,omitempty"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
	Phone      string `bson:"phone" json:"phone"`
}

// Order is a persisted checkout. TotalAmount = round2(Subtotal +
// ShippingCost); each item's TotalPrice = round2(UnitPrice * Quantity).
type Order struct {
	ID              string        `bson:"_id,omitempty" json:"_id"`
	OrderNumber     string        `bson:"orderNumber" json:"orderNumber"`
	Customer        OrderCustomer `bson:"customer" json:"customer"`
	BillingAddress  Address       `bson:"billingAddress" json:"billingAddress"`
	ShippingAddress Address       `bson:"shippingAddress" json:"shippingAddress"`
	Items           []OrderItem   `bson:"items" json:"items"`
	Subtotal        float64       `bson:"subtotal" json:"subtotal"`
	TaxAmount       float64       `bson:"taxAmount" json:"taxAmount"`
	ShippingCost    float64       `bson:"shippingCost" json:"shippingCost"`
	DiscountAmount  float64       `bson:"discountAmount" json:"discountAmount"`
	TotalAmount     float64       `bson:"totalAmount" json:"totalAmount"`
	Status          string        `bson:"status" json:"status"`
	PaymentStatus   string        `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod   string        `bson:"paymentMethod" json:"paymentMethod"`
	OrderDate       time.Time     `bson:"orderDate" json:"orderDate"`
	Notes           string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy       *string       `bson:"createdBy" json:"createdBy"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}

const (
	OrderStatusPending   = "pending"
	PaymentStatusPending = "pending"
	PaymentBankTransfer  = "bank_transfer"
)
