package controllers

import (
	"time"

	"github.com/iota-uz/dora-register/modules/contracts/domain/aggregates/contract"
)

type ContractResponse struct {
	contract.DTO
	ID           string          `json:"id"`
	Status       contract.Status `json:"status"`
	DaysToEnd    *int            `json:"days_to_end,omitempty"`
	CostDisplay  string          `json:"annual_cost_display,omitempty"`
	TerminatedAt *time.Time      `json:"terminated_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toContractResponse(c contract.Contract, now time.Time) ContractResponse {
	resp := ContractResponse{
		DTO:          c.ToDTO(),
		ID:           c.ID().String(),
		Status:       c.Status(now),
		TerminatedAt: c.TerminatedAt(),
		CreatedAt:    c.CreatedAt(),
		UpdatedAt:    c.UpdatedAt(),
	}
	if days, ok := c.DaysUntilEnd(now); ok {
		resp.DaysToEnd = &days
	}
	if cost := c.AnnualCost(); cost != nil {
		resp.CostDisplay = cost.Display()
	}
	return resp
}

func toContractResponses(items []contract.Contract, now time.Time) []ContractResponse {
	out := make([]ContractResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toContractResponse(c, now))
	}
	return out
}

type contractListQuery struct {
	Q            string `form:"q"`
	VendorID     string `form:"vendor_id"`
	Status       string `form:"status"`
	ServiceType  string `form:"service_type"`
	ExpiringDays int    `form:"expiring_within_days"`
}
