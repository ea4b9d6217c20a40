package dto

import (
	"time"

	"tokopos/internal/core/id"
	"tokopos/internal/core/types"
	"tokopos/internal/domain/cashsessions"
)

// --- Request DTOs ---

type OpenSessionRequest struct {
	OpeningBalance float64 `json:"openingBalance" binding:"gte=0"`
}

func (r *OpenSessionRequest) ToInput() cashsessions.OpenInput {
	return cashsessions.OpenInput{
		OpeningBalance: types.NewMoney(r.OpeningBalance),
	}
}

type CloseSessionRequest struct {
	ClosingBalance float64 `json:"closingBalance" binding:"gte=0"`
	Notes          string  `json:"notes,omitempty"`
}

func (r *CloseSessionRequest) ToInput(sessionID id.ID) cashsessions.CloseInput {
	return cashsessions.CloseInput{
		SessionID:      sessionID,
		ClosingBalance: types.NewMoney(r.ClosingBalance),
		Notes:          r.Notes,
	}
}

// --- Response DTOs ---

type CashSessionResponse struct {
	ID              string       `json:"id"`
	UserID          string       `json:"userId"`
	Status          string       `json:"status"`
	OpeningBalance  types.Money  `json:"openingBalance"`
	ClosingBalance  *types.Money `json:"closingBalance,omitempty"`
	ExpectedBalance *types.Money `json:"expectedBalance,omitempty"`
	Difference      *types.Money `json:"difference,omitempty"`
	OpenedAt        time.Time    `json:"openedAt"`
	ClosedAt        *time.Time   `json:"closedAt,omitempty"`
	Notes           string       `json:"notes,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

func FromCashSession(s *cashsessions.CashSession) *CashSessionResponse {
	return &CashSessionResponse{
		ID:              s.ID.String(),
		UserID:          s.UserID.String(),
		Status:          string(s.Status),
		OpeningBalance:  s.OpeningBalance,
		ClosingBalance:  s.ClosingBalance,
		ExpectedBalance: s.ExpectedBalance,
		Difference:      s.Difference,
		OpenedAt:        s.OpenedAt,
		ClosedAt:        s.ClosedAt,
		Notes:           s.Notes,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
