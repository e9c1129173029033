package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/pkg/application"
)

func TestWriteMigrationStatus(t *testing.T) {
	var buf bytes.Buffer
	err := writeMigrationStatus(&buf, []application.MigrationStatus{
		{Module: "core", Version: 1, Source: "00001_core.sql", Applied: true, AppliedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{Module: "vendors", Version: 1, Source: "00001_vendors.sql"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "MODULE"))
	require.Contains(t, lines[1], "2025-03-01 10:00:00")
	require.Contains(t, lines[2], "false")
	require.Contains(t, lines[2], "-")
}
