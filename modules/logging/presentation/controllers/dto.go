package controllers

import (
	"encoding/json"
	"time"

	"github.com/iota-uz/dora-register/modules/logging/domain/entities/actionlog"
)

type ActionLogResponse struct {
	ID        int64           `json:"id"`
	UserID    string          `json:"user_id"`
	Kind      actionlog.Kind  `json:"kind"`
	Method    string          `json:"method"`
	Path      string          `json:"path"`
	Before    json.RawMessage `json:"before,omitempty"`
	After     json.RawMessage `json:"after,omitempty"`
	UserAgent string          `json:"user_agent"`
	IP        string          `json:"ip"`
	CreatedAt time.Time       `json:"created_at"`
}

func toActionLogResponses(items []*actionlog.ActionLog) []ActionLogResponse {
	out := make([]ActionLogResponse, 0, len(items))
	for _, l := range items {
		out = append(out, ActionLogResponse{
			ID:        l.ID,
			UserID:    l.UserID,
			Kind:      l.Kind,
			Method:    l.Method,
			Path:      l.Path,
			Before:    l.Before,
			After:     l.After,
			UserAgent: l.UserAgent,
			IP:        l.IP,
			CreatedAt: l.CreatedAt,
		})
	}
	return out
}

type auditQuery struct {
	UserID string `form:"user_id"`
	Kind   string `form:"kind"`
	Method string `form:"method"`
	Path   string `form:"path"`
	From   string `form:"from"`
	To     string `form:"to"`
}
