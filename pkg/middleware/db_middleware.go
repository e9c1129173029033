package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/constants"
	"github.com/iota-uz/dora-register/pkg/httpapi"
	"github.com/iota-uz/dora-register/pkg/repo"
)

// Provide stores value under key in every request context.
func Provide(key constants.ContextKey, value any) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), key, value)))
		})
	}
}

// WithTransaction runs the handler inside a tenant-scoped transaction.
// The transaction commits only when the handler answered below 400, so a
// rejected edit leaves no partial writes behind.
func WithTransaction() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// An outer transaction owns commit and rollback.
			if _, ok := r.Context().Value(constants.TxKey).(repo.Tx); ok {
				next.ServeHTTP(w, r)
				return
			}
			pool, err := composables.UsePool(r.Context())
			if err != nil {
				httpapi.WriteServiceError(w, r, err)
				return
			}
			tx, err := pool.Begin(r.Context())
			if err != nil {
				httpapi.WriteServiceError(w, r, err)
				return
			}
			logger := composables.UseLogger(r.Context())
			defer func() {
				if err := tx.Rollback(context.WithoutCancel(r.Context())); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
					logger.WithError(err).Error("failed to rollback transaction")
				}
			}()

			ctx := composables.WithTx(r.Context(), tx)
			if err := composables.ApplyTenantRLS(ctx, tx); err != nil {
				httpapi.WriteServiceError(w, r, err)
				return
			}

			tw := &txResponseWriter{ResponseWriter: w}
			next.ServeHTTP(tw, r.WithContext(ctx))
			if tw.failed() {
				return
			}
			if err := tx.Commit(r.Context()); err != nil {
				logger.WithError(err).Error("failed to commit transaction")
				if !tw.wroteHeader {
					httpapi.WriteServiceError(w, r, err)
				}
			}
		})
	}
}

// txResponseWriter buffers nothing; it only observes the status code.
type txResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *txResponseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *txResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *txResponseWriter) failed() bool {
	return w.wroteHeader && w.status >= http.StatusBadRequest
}
