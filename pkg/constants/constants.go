package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	TxKey        ContextKey = "tx"
	PoolKey      ContextKey = "pool"
	LoggerKey    ContextKey = "logger"
	ParamsKey    ContextKey = "params"
	AppKey       ContextKey = "app"
	TenantIDKey  ContextKey = "tenantID"
	UserKey      ContextKey = "user"
	RequestStart ContextKey = "requestStart"
	RequestIDKey ContextKey = "requestID"
	LocalizerKey ContextKey = "localizer"
	LocaleKey    ContextKey = "locale"
)

// Validate is shared by every DTO so custom validations registered at startup are visible everywhere.
var Validate = validator.New(validator.WithRequiredStructEnabled())
