package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/user"
	"github.com/iota-uz/dora-register/modules/core/testhelpers"
	"github.com/iota-uz/dora-register/modules/logging/domain/entities/actionlog"
	"github.com/iota-uz/dora-register/pkg/authz"
	"github.com/iota-uz/dora-register/pkg/itf"
)

type mockActionLogRepo struct {
	calledList bool
	lastParams *actionlog.FindParams
	created    []*actionlog.ActionLog
}

func (m *mockActionLogRepo) List(ctx context.Context, params *actionlog.FindParams) ([]*actionlog.ActionLog, error) {
	m.calledList = true
	m.lastParams = params
	return m.created, nil
}

func (m *mockActionLogRepo) Count(ctx context.Context, params *actionlog.FindParams) (int64, error) {
	return int64(len(m.created)), nil
}

func (m *mockActionLogRepo) Create(ctx context.Context, log *actionlog.ActionLog) error {
	m.created = append(m.created, log)
	return nil
}

func TestLogsService_ListActionLogs_AdminOnly(t *testing.T) {
	testhelpers.WithAuthzMode(t, authz.ModeEnforce)
	repo := &mockActionLogRepo{}
	svc := NewLogsService(repo)

	_, _, err := svc.ListActionLogs(itf.NewTestContext().AsRole(user.RoleEditor).Context(), nil)
	require.ErrorIs(t, err, authz.ErrForbidden)
	require.False(t, repo.calledList)

	_, total, err := svc.ListActionLogs(itf.NewTestContext().AsRole(user.RoleAdmin).Context(), nil)
	require.NoError(t, err)
	require.True(t, repo.calledList)
	require.NotNil(t, repo.lastParams)
	require.Zero(t, total)
}

func TestLogsService_CreateActionLog(t *testing.T) {
	repo := &mockActionLogRepo{}
	svc := NewLogsService(repo)
	ctx := itf.NewTestContext().Context()

	require.Error(t, svc.CreateActionLog(ctx, nil))
	require.NoError(t, svc.CreateActionLog(ctx, &actionlog.ActionLog{Method: "POST", Path: "/api/vendors"}))
	require.Len(t, repo.created, 1)
}
