package models

import "time"

type ActionLog struct {
	ID        int64
	TenantID  string
	UserID    string
	Kind      string
	Method    string
	Path      string
	Before    []byte
	After     []byte
	UserAgent string
	IP        string
	CreatedAt time.Time
}
