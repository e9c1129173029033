package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/user"
	"github.com/iota-uz/dora-register/modules/core/testhelpers"
	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
	"github.com/iota-uz/dora-register/modules/vendors/services"
	"github.com/iota-uz/dora-register/pkg/authz"
	"github.com/iota-uz/dora-register/pkg/httpapi"
	"github.com/iota-uz/dora-register/pkg/itf"
)

type stubVendors struct {
	items      map[uuid.UUID]vendor.Vendor
	referenced bool
}

func (s *stubVendors) List(ctx context.Context, params *vendor.FindParams) ([]vendor.Vendor, error) {
	out := []vendor.Vendor{}
	for _, v := range s.items {
		out = append(out, v)
	}
	return out, nil
}

func (s *stubVendors) Count(ctx context.Context, params *vendor.FindParams) (int64, error) {
	return int64(len(s.items)), nil
}

func (s *stubVendors) GetByID(ctx context.Context, id uuid.UUID) (vendor.Vendor, error) {
	v, ok := s.items[id]
	if !ok {
		return vendor.Vendor{}, vendor.ErrNotFound
	}
	return v, nil
}

func (s *stubVendors) Create(ctx context.Context, v vendor.Vendor) (vendor.Vendor, error) {
	saved := vendor.New(v.ToDTO(), vendor.WithID(uuid.New()), vendor.WithTimestamps(time.Now(), time.Now()))
	s.items[saved.ID()] = saved
	return saved, nil
}

func (s *stubVendors) Update(ctx context.Context, v vendor.Vendor) (vendor.Vendor, error) {
	s.items[v.ID()] = v
	return v, nil
}

func (s *stubVendors) Delete(ctx context.Context, id uuid.UUID) error {
	if s.referenced {
		return vendor.ErrHasContracts
	}
	delete(s.items, id)
	return nil
}

func newTestController() (*VendorController, *stubVendors) {
	store := &stubVendors{items: map[uuid.UUID]vendor.Vendor{}}
	return &VendorController{
		vendors:  services.NewVendorService(store),
		basePath: "/api/vendors",
	}, store
}

func serve(c *VendorController, role user.Role, method, target, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	c.Register(router)
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r = r.WithContext(itf.NewTestContext().AsRole(role).WithTx(&itf.StubTx{}).Context())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

const vendorJSON = `{
	"name": "Cloudy GmbH",
	"lei": "5493001KJTIIGC8Y1R12",
	"person_type": "legal",
	"hq_country": "de",
	"criticality": "critical",
	"substitutability": "highly_complex",
	"annual_expense": {"amount": 123450, "currency": "EUR"}
}`

func TestVendorController_CreateAndGet(t *testing.T) {
	testhelpers.WithAuthzMode(t, authz.ModeEnforce)
	c, _ := newTestController()

	w := serve(c, user.RoleEditor, http.MethodPost, "/api/vendors", vendorJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created VendorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "DE", created.HQCountry)
	require.Equal(t, "€1,234.50", created.Display)

	w = serve(c, user.RoleViewer, http.MethodGet, "/api/vendors/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(c, user.RoleViewer, http.MethodGet, "/api/vendors", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page httpapi.Page[VendorResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Equal(t, int64(1), page.Total)
}

func TestVendorController_ViewerCannotCreate(t *testing.T) {
	testhelpers.WithAuthzMode(t, authz.ModeEnforce)
	c, _ := newTestController()

	w := serve(c, user.RoleViewer, http.MethodPost, "/api/vendors", vendorJSON)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestVendorController_ValidationAndNotFound(t *testing.T) {
	testhelpers.WithAuthzMode(t, authz.ModeEnforce)
	c, _ := newTestController()

	w := serve(c, user.RoleEditor, http.MethodPost, "/api/vendors", `{"name":"x"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = serve(c, user.RoleViewer, http.MethodGet, "/api/vendors/"+uuid.NewString(), "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "VENDOR_NOT_FOUND")
}

func TestVendorController_DeleteReferenced(t *testing.T) {
	testhelpers.WithAuthzMode(t, authz.ModeEnforce)
	c, store := newTestController()
	w := serve(c, user.RoleEditor, http.MethodPost, "/api/vendors", vendorJSON)
	require.Equal(t, http.StatusCreated, w.Code)
	var created VendorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	store.referenced = true
	w = serve(c, user.RoleEditor, http.MethodDelete, "/api/vendors/"+created.ID, "")
	require.Equal(t, http.StatusConflict, w.Code)

	store.referenced = false
	w = serve(c, user.RoleEditor, http.MethodDelete, "/api/vendors/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestVendorController_Concentration(t *testing.T) {
	testhelpers.WithAuthzMode(t, authz.ModeEnforce)
	c, _ := newTestController()
	w := serve(c, user.RoleEditor, http.MethodPost, "/api/vendors", vendorJSON)
	require.Equal(t, http.StatusCreated, w.Code)

	w = serve(c, user.RoleViewer, http.MethodGet, "/api/vendors:concentration?threshold=50", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result vendor.Concentration
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, "EUR", result.Currency)
	require.Len(t, result.Flagged, 1)

	w = serve(c, user.RoleViewer, http.MethodGet, "/api/vendors:concentration?threshold=abc", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
