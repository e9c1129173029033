package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/iota-uz/dora-register/modules/logging/domain/entities/actionlog"
	"github.com/iota-uz/dora-register/modules/logging/services"
	"github.com/iota-uz/dora-register/pkg/composables"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func recordable(r *http.Request) bool {
	if !strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// ActionLogMiddleware records successful mutating API requests into
// action_logs. It must run inside the authentication middleware. Logging is
// best effort and never changes the response.
func ActionLogMiddleware(logs *services.LogsService, enabled bool) mux.MiddlewareFunc {
	if !enabled {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !recordable(r) {
				next.ServeHTTP(w, r)
				return
			}
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			if rec.status >= http.StatusBadRequest {
				return
			}

			ctx := r.Context()
			if _, err := composables.UseTenantID(ctx); err != nil {
				return
			}
			currentUser, err := composables.UseUser(ctx)
			if err != nil || currentUser == nil {
				return
			}
			ua, _ := composables.UseUserAgent(ctx)
			ip, _ := composables.UseIP(ctx)

			entry := &actionlog.ActionLog{
				UserID:    currentUser.ID(),
				Kind:      actionlog.KindRequest,
				Method:    strings.ToUpper(r.Method),
				Path:      r.URL.Path,
				UserAgent: ua,
				IP:        ip,
				CreatedAt: time.Now(),
			}
			// The request context may already be cancelled by the client.
			ctx = context.WithoutCancel(ctx)
			err = composables.InTenantTx(ctx, func(txCtx context.Context) error {
				return logs.CreateActionLog(txCtx, entry)
			})
			if err != nil {
				composables.UseLogger(ctx).WithError(err).Warn("action-log: failed to persist request")
			}
		})
	}
}
