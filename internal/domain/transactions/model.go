// Package transactions implements the posting engine: turning a submitted
// cart into a durable sale or purchase with consistent stock effects, and
// the inverse operations (cancel, return) that undo those effects.
package transactions

import (
	"context"
	"time"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/id"
	"tokopos/internal/core/types"
)

// Type discriminates sales from purchases.
type Type string

const (
	TypeSale     Type = "SALE"
	TypePurchase Type = "PURCHASE"
)

// Valid reports whether the type is a known value.
func (t Type) Valid() bool {
	return t == TypeSale || t == TypePurchase
}

// NumberPrefix returns the numbering prefix for the type.
func (t Type) NumberPrefix() string {
	if t == TypePurchase {
		return "tr-purchase"
	}
	return "tr-sale"
}

// Status is the lifecycle state of a transaction. CANCELED and RETURNED
// are terminal and reachable only from COMPLETED.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusCanceled  Status = "CANCELED"
	StatusReturned  Status = "RETURNED"
)

// PaymentMethodCash is the default tender for sales posted without an
// explicit payment method.
const PaymentMethodCash = "CASH"

// Transaction is a posted sale or purchase document. Financial fields are
// fixed at posting time; status is the only header field that changes
// afterwards.
type Transaction struct {
	ID       id.ID  `db:"id" json:"id"`
	Number   string `db:"number" json:"number"`
	Type     Type   `db:"type" json:"type"`
	Status   Status `db:"status" json:"status"`

	Date      time.Time `db:"date" json:"date"`
	PartnerID *id.ID    `db:"partner_id" json:"partnerId,omitempty"`
	CashierID id.ID     `db:"cashier_id" json:"cashierId"`

	Subtotal       types.Money `db:"subtotal" json:"subtotal"`
	DiscountAmount types.Money `db:"discount_amount" json:"discountAmount"`
	TaxAmount      types.Money `db:"tax_amount" json:"taxAmount"`
	GrandTotal     types.Money `db:"grand_total" json:"grandTotal"`

	PaymentMethod string      `db:"payment_method" json:"paymentMethod,omitempty"`
	PaymentAmount types.Money `db:"payment_amount" json:"paymentAmount"`
	ChangeAmount  types.Money `db:"change_amount" json:"changeAmount"`

	Notes string `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	Version   int       `db:"version" json:"version"`

	// Loaded relation
	Items []Item `db:"-" json:"items,omitempty"`
}

// Item is one product line inside a transaction. Immutable after posting;
// reversal only reads it to compute inverse stock deltas.
type Item struct {
	ID            id.ID  `db:"id" json:"id"`
	TransactionID id.ID  `db:"transaction_id" json:"transactionId"`
	ProductID     id.ID  `db:"product_id" json:"productId"`
	ProductName   string `db:"product_name" json:"productName"`

	Quantity       int64       `db:"quantity" json:"quantity"`
	UnitPrice      types.Money `db:"unit_price" json:"unitPrice"`
	CostPrice      types.Money `db:"cost_price" json:"costPrice"`
	DiscountAmount types.Money `db:"discount_amount" json:"discountAmount"`
	TaxAmount      types.Money `db:"tax_amount" json:"taxAmount"`
	LineTotal      types.Money `db:"line_total" json:"lineTotal"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// PostLine is one cart line submitted for posting.
type PostLine struct {
	ProductID id.ID `json:"productId"`
	Quantity  int64 `json:"quantity"`

	UnitPrice types.Money `json:"unitPrice"`

	// CostPrice applies to purchases only; when nil the unit price is used.
	// Sales always snapshot the product's current cost price instead.
	CostPrice *types.Money `json:"costPrice,omitempty"`

	DiscountAmount types.Money `json:"discountAmount"`
	TaxAmount      types.Money `json:"taxAmount"`
}

// PostInput is a cart plus header fields, ready for posting.
type PostInput struct {
	Type      Type       `json:"type"`
	PartnerID *id.ID     `json:"partnerId,omitempty"`
	Lines     []PostLine `json:"lines"`

	DiscountAmount types.Money `json:"discountAmount"`
	TaxAmount      types.Money `json:"taxAmount"`

	PaymentMethod string      `json:"paymentMethod,omitempty"`
	PaymentAmount types.Money `json:"paymentAmount"`

	Notes string `json:"notes,omitempty"`

	// Date overrides the posting timestamp; zero means "now".
	Date time.Time `json:"date,omitempty"`
}

// Validate checks the input before any storage access.
func (in *PostInput) Validate(ctx context.Context) error {
	if !in.Type.Valid() {
		return apperror.NewValidation("type must be SALE or PURCHASE").
			WithDetail("field", "type")
	}
	if len(in.Lines) == 0 {
		return apperror.NewValidation("cart is empty").
			WithDetail("field", "lines")
	}
	for i, line := range in.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product id is required").
				WithDetail("line", i)
		}
		if line.Quantity < 1 {
			return apperror.NewValidation("quantity must be at least 1").
				WithDetail("line", i).
				WithDetail("quantity", line.Quantity)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price must not be negative").
				WithDetail("line", i)
		}
		if line.DiscountAmount.IsNegative() || line.TaxAmount.IsNegative() {
			return apperror.NewValidation("line discount and tax must not be negative").
				WithDetail("line", i)
		}
	}
	if in.DiscountAmount.IsNegative() || in.TaxAmount.IsNegative() {
		return apperror.NewValidation("discount and tax must not be negative")
	}
	if in.PaymentAmount.IsNegative() {
		return apperror.NewValidation("payment amount must not be negative").
			WithDetail("field", "paymentAmount")
	}
	return nil
}

// LineTotal computes quantity*unitPrice - discount + tax at 2 decimals.
func (l PostLine) LineTotal() types.Money {
	qty := types.NewMoneyFromInt(l.Quantity)
	return types.Round2(l.UnitPrice.Mul(qty).Sub(l.DiscountAmount).Add(l.TaxAmount))
}
