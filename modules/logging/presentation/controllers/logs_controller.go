package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/iota-uz/dora-register/modules/logging/domain/entities/actionlog"
	"github.com/iota-uz/dora-register/modules/logging/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/httpapi"
)

type LogsController struct {
	app         application.Application
	logsService *services.LogsService
	basePath    string
}

func NewLogsController(app application.Application) application.Controller {
	return &LogsController{
		app:         app,
		logsService: app.Service(services.LogsService{}).(*services.LogsService),
		basePath:    "/api/audit",
	}
}

func (c *LogsController) Key() string {
	return c.basePath
}

func (c *LogsController) Register(r *mux.Router) {
	getRouter := r.PathPrefix(c.basePath).Subrouter()
	getRouter.HandleFunc("", c.List).Methods(http.MethodGet)
}

func (c *LogsController) List(w http.ResponseWriter, r *http.Request) {
	query, err := composables.UseQuery(&auditQuery{}, r)
	if err != nil {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_QUERY", err.Error())
		return
	}
	page := composables.UsePaginated(r, 50, 500)
	params := &actionlog.FindParams{
		UserID: strings.TrimSpace(query.UserID),
		Kind:   actionlog.Kind(strings.TrimSpace(query.Kind)),
		Method: query.Method,
		Path:   query.Path,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if params.Kind != "" && !params.Kind.Valid() {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_QUERY", "unknown audit kind")
		return
	}
	if params.From, err = parseBound(query.From, false); err != nil {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_QUERY", err.Error())
		return
	}
	if params.To, err = parseBound(query.To, true); err != nil {
		httpapi.WriteError(w, r, http.StatusBadRequest, "MALFORMED_QUERY", err.Error())
		return
	}

	items, total, err := c.logsService.ListActionLogs(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.NewPage(toActionLogResponses(items), total, page.Limit, page.Offset))
}

// parseBound accepts RFC 3339 timestamps or plain dates. A plain date used
// as the upper bound covers the whole day.
func parseBound(v string, upper bool) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	d, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", v)
	}
	if upper {
		d = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &d, nil
}
