package controllers

import (
	"time"

	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
)

type VendorResponse struct {
	vendor.DTO
	ID        string    `json:"id"`
	Display   string    `json:"annual_expense_display,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toVendorResponse(v vendor.Vendor) VendorResponse {
	resp := VendorResponse{
		ID:        v.ID().String(),
		DTO:       v.ToDTO(),
		CreatedAt: v.CreatedAt(),
		UpdatedAt: v.UpdatedAt(),
	}
	if exp := v.AnnualExpense(); exp != nil {
		resp.Display = exp.Display()
	}
	return resp
}

func toVendorResponses(vendors []vendor.Vendor) []VendorResponse {
	out := make([]VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, toVendorResponse(v))
	}
	return out
}

// vendorListQuery is decoded from the query string.
type vendorListQuery struct {
	Q           string `form:"q"`
	Criticality string `form:"criticality"`
	Country     string `form:"country"`
	Status      string `form:"status"`
}
