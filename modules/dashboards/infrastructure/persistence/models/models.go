package models

import "time"

type Dashboard struct {
	ID        string
	TenantID  string
	Name      string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Widget struct {
	ID          string
	TenantID    string
	DashboardID string
	Title       string
	Kind        string
	Source      string
	PosX        int
	PosY        int
	Width       int
	Height      int
	Config      []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
