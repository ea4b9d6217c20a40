package dto

import (
	"time"

	"tokopos/internal/domain/catalogs/partner"
)

// --- Request DTOs ---

type CreatePartnerRequest struct {
	Code    string `json:"code" binding:"required,catalogcode"`
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required,oneof=CUSTOMER SUPPLIER"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func (r *CreatePartnerRequest) ToEntity() *partner.Partner {
	p := partner.New(r.Code, r.Name, partner.Type(r.Type))
	p.Phone = r.Phone
	p.Address = r.Address
	return p
}

type UpdatePartnerRequest struct {
	Code     *string `json:"code,omitempty"`
	Name     *string `json:"name,omitempty"`
	Type     *string `json:"type,omitempty" binding:"omitempty,oneof=CUSTOMER SUPPLIER"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
	Version  int     `json:"version" binding:"required,min=1"`
}

func (r *UpdatePartnerRequest) ApplyTo(p *partner.Partner) {
	if r.Code != nil {
		p.Code = *r.Code
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Type != nil {
		p.Type = partner.Type(*r.Type)
	}
	if r.Phone != nil {
		p.Phone = *r.Phone
	}
	if r.Address != nil {
		p.Address = *r.Address
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	p.Version = r.Version
}

// --- Response DTOs ---

type PartnerResponse struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	IsActive     bool      `json:"isActive"`
	DeletionMark bool      `json:"deletionMark,omitempty"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func FromPartner(p *partner.Partner) *PartnerResponse {
	return &PartnerResponse{
		ID:           p.ID.String(),
		Code:         p.Code,
		Name:         p.Name,
		Type:         string(p.Type),
		Phone:        p.Phone,
		Address:      p.Address,
		IsActive:     p.IsActive,
		DeletionMark: p.DeletionMark,
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
