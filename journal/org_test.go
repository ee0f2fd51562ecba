package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOrg(t *testing.T) {
	t.Parallel()

	rec := testRunRecord()
	path := filepath.Join(t.TempDir(), "run.org")
	require.NoError(t, rec.WriteOrg(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	result := string(data)

	assert.Contains(t, result, "* STRESS: severe stress (breached)")
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":RUN_ID:       01JTESTRUN")
	assert.Contains(t, result, ":SCENARIO:     severe stress")
	assert.Contains(t, result, ":PERIODS:      14/60")
	assert.Contains(t, result, ":HORIZON:      14")
	assert.Contains(t, result, ":DRIVER:       deposit_flight")
	assert.Contains(t, result, ":WITHDRAWN:    312.50")
	assert.Contains(t, result, ":FINAL_LCR:    62.4")
	assert.Contains(t, result, ":CREATED:      [2026-03-04 Wed 05:06]")
	assert.Contains(t, result, ":END:")
	assert.Contains(t, result, "** Outcome")
}

func TestWriteOrgSurvived(t *testing.T) {
	t.Parallel()

	rec := testRunRecord()
	rec.Breached = false
	rec.PrimaryDriver = ""
	path := filepath.Join(t.TempDir(), "run.org")
	require.NoError(t, rec.WriteOrg(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	result := string(data)

	assert.Contains(t, result, "(survived)")
	assert.Contains(t, result, ":DRIVER:       (driver?)")
}

func TestWriteOrgStructure(t *testing.T) {
	t.Parallel()

	rec := testRunRecord()
	path := filepath.Join(t.TempDir(), "run.org")
	require.NoError(t, rec.WriteOrg(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Greater(t, len(lines), 10)
	assert.True(t, strings.HasPrefix(lines[0], "* STRESS:"))

	propertiesStart := -1
	propertiesEnd := -1
	for i, line := range lines {
		if line == ":PROPERTIES:" {
			propertiesStart = i
		}
		if line == ":END:" && propertiesStart >= 0 && propertiesEnd < 0 {
			propertiesEnd = i
			break
		}
	}
	assert.Greater(t, propertiesStart, 0)
	assert.Greater(t, propertiesEnd, propertiesStart)
}

func TestWriteOrgZeroCreatedAtDefaultsToNow(t *testing.T) {
	t.Parallel()

	rec := testRunRecord()
	rec.CreatedAt = time.Time{}
	path := filepath.Join(t.TempDir(), "run.org")
	require.NoError(t, rec.WriteOrg(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "0001-01-01")
}
