package user

import "github.com/google/uuid"

// User is the authenticated caller. Users live in the hosted auth backend;
// this service only sees what the access token says about them.
type User interface {
	ID() string
	Email() string
	TenantID() uuid.UUID
	Role() Role
	UILanguage() UILanguage
}

type Option func(*user)

func WithEmail(email string) Option {
	return func(u *user) {
		u.email = email
	}
}

func WithUILanguage(lang UILanguage) Option {
	return func(u *user) {
		u.uiLanguage = lang
	}
}

func New(id string, tenantID uuid.UUID, role Role, opts ...Option) User {
	u := &user{
		id:         id,
		tenantID:   tenantID,
		role:       role,
		uiLanguage: UILanguageEN,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type user struct {
	id         string
	email      string
	tenantID   uuid.UUID
	role       Role
	uiLanguage UILanguage
}

func (u *user) ID() string {
	return u.id
}

func (u *user) Email() string {
	return u.email
}

func (u *user) TenantID() uuid.UUID {
	return u.tenantID
}

func (u *user) Role() Role {
	return u.role
}

func (u *user) UILanguage() UILanguage {
	return u.uiLanguage
}
