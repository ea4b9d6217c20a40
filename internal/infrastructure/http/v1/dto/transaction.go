package dto

import (
	"time"

	"tokopos/internal/core/id"
	"tokopos/internal/core/types"
	"tokopos/internal/domain/transactions"
)

// --- Request DTOs ---

type PostTransactionRequest struct {
	Type           string                   `json:"type" binding:"required,oneof=SALE PURCHASE"`
	PartnerID      *string                  `json:"partnerId,omitempty"`
	Lines          []TransactionLineRequest `json:"lines" binding:"required,min=1,dive"`
	DiscountAmount float64                  `json:"discountAmount" binding:"gte=0"`
	TaxAmount      float64                  `json:"taxAmount" binding:"gte=0"`
	PaymentMethod  string                   `json:"paymentMethod,omitempty"`
	PaymentAmount  float64                  `json:"paymentAmount" binding:"gte=0"`
	Notes          string                   `json:"notes,omitempty"`
	Date           *time.Time               `json:"date,omitempty"`
}

type TransactionLineRequest struct {
	ProductID      string   `json:"productId" binding:"required"`
	Quantity       int64    `json:"quantity" binding:"required,min=1"`
	UnitPrice      float64  `json:"unitPrice" binding:"gte=0"`
	CostPrice      *float64 `json:"costPrice,omitempty" binding:"omitempty,gte=0"`
	DiscountAmount float64  `json:"discountAmount" binding:"gte=0"`
	TaxAmount      float64  `json:"taxAmount" binding:"gte=0"`
}

func (r *PostTransactionRequest) ToInput() transactions.PostInput {
	in := transactions.PostInput{
		Type:           transactions.Type(r.Type),
		DiscountAmount: types.NewMoney(r.DiscountAmount),
		TaxAmount:      types.NewMoney(r.TaxAmount),
		PaymentMethod:  r.PaymentMethod,
		PaymentAmount:  types.NewMoney(r.PaymentAmount),
		Notes:          r.Notes,
	}

	if r.PartnerID != nil {
		if parsed, err := id.Parse(*r.PartnerID); err == nil {
			in.PartnerID = &parsed
		}
	}
	if r.Date != nil {
		in.Date = *r.Date
	}

	in.Lines = make([]transactions.PostLine, len(r.Lines))
	for i, line := range r.Lines {
		productID, _ := id.Parse(line.ProductID)
		in.Lines[i] = transactions.PostLine{
			ProductID:      productID,
			Quantity:       line.Quantity,
			UnitPrice:      types.NewMoney(line.UnitPrice),
			DiscountAmount: types.NewMoney(line.DiscountAmount),
			TaxAmount:      types.NewMoney(line.TaxAmount),
		}
		if line.CostPrice != nil {
			cost := types.NewMoney(*line.CostPrice)
			in.Lines[i].CostPrice = &cost
		}
	}
	return in
}

// --- Response DTOs ---

type TransactionResponse struct {
	ID             string      `json:"id"`
	Number         string      `json:"number"`
	Type           string      `json:"type"`
	Status         string      `json:"status"`
	Date           time.Time   `json:"date"`
	PartnerID      *string     `json:"partnerId,omitempty"`
	CashierID      string      `json:"cashierId"`
	Subtotal       types.Money `json:"subtotal"`
	DiscountAmount types.Money `json:"discountAmount"`
	TaxAmount      types.Money `json:"taxAmount"`
	GrandTotal     types.Money `json:"grandTotal"`
	PaymentMethod  string      `json:"paymentMethod,omitempty"`
	PaymentAmount  types.Money `json:"paymentAmount"`
	ChangeAmount   types.Money `json:"changeAmount"`
	Notes          string      `json:"notes,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`

	Items []TransactionItemResponse `json:"items,omitempty"`
}

type TransactionItemResponse struct {
	ID             string      `json:"id"`
	ProductID      string      `json:"productId"`
	ProductName    string      `json:"productName"`
	Quantity       int64       `json:"quantity"`
	UnitPrice      types.Money `json:"unitPrice"`
	CostPrice      types.Money `json:"costPrice"`
	DiscountAmount types.Money `json:"discountAmount"`
	TaxAmount      types.Money `json:"taxAmount"`
	LineTotal      types.Money `json:"lineTotal"`
}

func FromTransaction(trx *transactions.Transaction) *TransactionResponse {
	resp := &TransactionResponse{
		ID:             trx.ID.String(),
		Number:         trx.Number,
		Type:           string(trx.Type),
		Status:         string(trx.Status),
		Date:           trx.Date,
		CashierID:      trx.CashierID.String(),
		Subtotal:       trx.Subtotal,
		DiscountAmount: trx.DiscountAmount,
		TaxAmount:      trx.TaxAmount,
		GrandTotal:     trx.GrandTotal,
		PaymentMethod:  trx.PaymentMethod,
		PaymentAmount:  trx.PaymentAmount,
		ChangeAmount:   trx.ChangeAmount,
		Notes:          trx.Notes,
		CreatedAt:      trx.CreatedAt,
		UpdatedAt:      trx.UpdatedAt,
	}
	if trx.PartnerID != nil {
		s := trx.PartnerID.String()
		resp.PartnerID = &s
	}

	if len(trx.Items) > 0 {
		resp.Items = make([]TransactionItemResponse, len(trx.Items))
		for i, item := range trx.Items {
			resp.Items[i] = TransactionItemResponse{
				ID:             item.ID.String(),
				ProductID:      item.ProductID.String(),
				ProductName:    item.ProductName,
				Quantity:       item.Quantity,
				UnitPrice:      item.UnitPrice,
				CostPrice:      item.CostPrice,
				DiscountAmount: item.DiscountAmount,
				TaxAmount:      item.TaxAmount,
				LineTotal:      item.LineTotal,
			}
		}
	}
	return resp
}
