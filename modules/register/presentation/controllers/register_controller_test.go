package controllers

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/contracts/domain/aggregates/contract"
	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/organization"
	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/user"
	"github.com/iota-uz/dora-register/modules/core/testhelpers"
	"github.com/iota-uz/dora-register/modules/register/services"
	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
	"github.com/iota-uz/dora-register/pkg/authz"
	"github.com/iota-uz/dora-register/pkg/itf"
)

type stubOrg struct{}

func (stubOrg) GetCurrent(ctx context.Context) (organization.Organization, error) {
	return organization.New(uuid.New()).ApplyProfile(organization.ProfileDTO{
		Name:               "Acme Bank",
		LEI:                "5493001KJTIIGC8Y1R12",
		EntityType:         "credit_institution",
		Country:            "DE",
		CompetentAuthority: "BaFin",
	}), nil
}

type stubVendors struct{}

func (stubVendors) All(context.Context) ([]vendor.Vendor, error) { return nil, nil }

type stubContracts struct{}

func (stubContracts) All(context.Context) ([]contract.Contract, error) {
	return []contract.Contract{contract.New(contract.DTO{Reference: "C-1", VendorID: uuid.New()})}, nil
}

func serve(role user.Role, target string) *httptest.ResponseRecorder {
	c := &RegisterController{
		register: services.NewRegisterService(stubOrg{}, stubVendors{}, stubContracts{}, nil),
		basePath: "/api/register",
	}
	router := mux.NewRouter()
	c.Register(router)
	r := httptest.NewRequest(http.MethodGet, target, strings.NewReader(""))
	r = r.WithContext(itf.NewTestContext().AsRole(role).Context())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestRegisterController_Validation(t *testing.T) {
	testhelpers.WithAuthzMode(t, authz.ModeEnforce)

	w := serve(user.RoleViewer, "/api/register/validation")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Valid)
	require.Equal(t, 2, resp.RowCount)
	require.Positive(t, resp.IssuesByTemplate["B_02.01"])
	require.Zero(t, resp.IssuesByTemplate["B_01.01"])
	require.Equal(t, "50.00", resp.Completeness)
}

func TestRegisterController_Export(t *testing.T) {
	testhelpers.WithAuthzMode(t, authz.ModeEnforce)

	w := serve(user.RoleEditor, "/api/register/export?format=csv")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "register-of-information-")

	body := w.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	require.Len(t, zr.File, 4)

	w = serve(user.RoleEditor, "/api/register/export")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/vnd.openxmlformats"))
}

func TestRegisterController_ExportErrors(t *testing.T) {
	testhelpers.WithAuthzMode(t, authz.ModeEnforce)

	w := serve(user.RoleViewer, "/api/register/export?format=csv")
	require.Equal(t, http.StatusForbidden, w.Code)

	w = serve(user.RoleEditor, "/api/register/export?format=pdf")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
