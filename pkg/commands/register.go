package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/dora-register/modules/alerts/scheduler"
	"github.com/iota-uz/dora-register/modules/register/infrastructure/export"
	"github.com/iota-uz/dora-register/modules/register/services"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/configuration"
)

// ExportRegister renders the register of tenantID into dir and returns the
// path of the written file.
func ExportRegister(ctx context.Context, tenantID uuid.UUID, format export.Format, dir string, mods ...application.Module) (string, error) {
	app, pool, err := NewApplication(ctx, mods...)
	if err != nil {
		return "", err
	}
	defer pool.Close()

	svc, ok := app.Service(services.RegisterService{}).(*services.RegisterService)
	if !ok {
		return "", fmt.Errorf("register module is not loaded")
	}

	ctx = scheduler.SystemContext(composables.WithPool(ctx, pool), tenantID)
	file, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (services.File, error) {
		return svc.Export(txCtx, format)
	})
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, file.Filename)
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	configuration.Use().Logger().WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"format":    format,
		"path":      path,
		"bytes":     len(file.Data),
	}).Info("register exported")
	return path, nil
}
