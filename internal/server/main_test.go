package server

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "server-test")
	if err != nil {
		panic(err)
	}
	_ = os.Setenv("AUTH_DISABLED", "true")
	_ = os.Setenv("AUTH_DEV_TENANT_ID", "00000000-0000-0000-0000-000000000001")
	_ = os.Setenv("GO_APP_ENV", "development")
	_ = os.Setenv("SCHEDULER_ENABLED", "false")
	_ = os.Setenv("LOG_PATH", filepath.Join(dir, "app.log"))
	_ = os.Setenv("UPLOADS_PATH", filepath.Join(dir, "uploads"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}
