package server

import (
	"errors"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"

	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/configuration"
	"github.com/iota-uz/dora-register/pkg/constants"
	"github.com/iota-uz/dora-register/pkg/metrics"
	"github.com/iota-uz/dora-register/pkg/middleware"
	"github.com/iota-uz/dora-register/pkg/routing"
	"github.com/iota-uz/dora-register/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

// Default assembles the HTTP server. Routes outside the ops allowlist need a
// verified token. Middleware registered by modules runs innermost, after the
// caller has been authenticated.
func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application
	conf := options.Configuration

	rules, err := routing.LoadAllowlist("", "server")
	if err != nil {
		if !errors.Is(err, routing.ErrAllowlistNotFound) {
			return nil, err
		}
		options.Logger.WithError(err).Warn("routing allowlist missing, using built-in rules")
		rules = routing.DefaultRules()
	}
	if conf.Prometheus.Enabled {
		rules = append(rules, routing.AllowlistRule{Prefix: conf.Prometheus.Path, Class: routing.RouteClassOps})
	}
	classifier := routing.NewClassifier(rules)

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger, middleware.DefaultLoggerOptions()),
		middleware.Provide(constants.AppKey, app),
		middleware.Provide(constants.PoolKey, options.Pool),
		middleware.Cors(conf.CORSOrigins()...),
	}
	if conf.Prometheus.Enabled {
		middlewares = append(middlewares, metrics.HTTPMiddleware())
	}

	if conf.RateLimit.Enabled {
		var store limiter.Store

		switch conf.RateLimit.Storage {
		case "redis":
			store, err = middleware.NewRedisStore(conf.RateLimit.RedisURL)
			if err != nil {
				options.Logger.WithError(err).Warn("Failed to create Redis store for rate limiting, falling back to memory")
				store = middleware.NewMemoryStore()
			}
		default:
			store = middleware.NewMemoryStore()
		}

		middlewares = append(middlewares,
			middleware.RateLimit(middleware.RateLimitConfig{
				RequestsPerPeriod: conf.RateLimit.GlobalRPS,
				Store:             store,
			}),
		)
	}

	middlewares = append(middlewares,
		middleware.RequestParams(),
		middleware.ProvideLocalizer(app),
		middleware.ForClass(classifier, routing.RouteClassAPI, middleware.Authorize(conf.Auth)),
	)
	middlewares = append(middlewares, app.Middleware()...)

	controllers := append([]application.Controller{NewHealthController(options.Pool)}, app.Controllers()...)
	if conf.Prometheus.Enabled {
		controllers = append(controllers, metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	return &server.HTTPServer{
		Controllers: controllers,
		Middlewares: middlewares,
	}, nil
}
