package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickpulse/internal/config"
)

func newTestManager(t *testing.T) (*Manager, *config.Paths) {
	t.Helper()
	base := t.TempDir()
	paths := &config.Paths{
		ExecutableDir: base,
		DataDir:       filepath.Join(base, "data"),
		UploadsDir:    filepath.Join(base, "data", "uploads"),
		ReportsDir:    filepath.Join(base, "data", "reports"),
		LogsDir:       filepath.Join(base, "logs"),
	}
	require.NoError(t, paths.EnsureDirectories())
	return NewManager(paths), paths
}

func TestSaveUpload(t *testing.T) {
	manager, paths := newTestManager(t)

	path, err := manager.SaveUpload("pick stats 17.xlsx", strings.NewReader("workbook-bytes"))
	require.NoError(t, err)
	assert.Equal(t, paths.GetUploadPath("pick stats 17.xlsx"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "workbook-bytes", string(data))

	t.Run("strips directory components from the name", func(t *testing.T) {
		path, err := manager.SaveUpload("../../../etc/evil.xlsx", strings.NewReader("x"))
		require.NoError(t, err)
		assert.Equal(t, paths.GetUploadPath("evil.xlsx"), path)
	})
}

func TestResolvePath(t *testing.T) {
	manager, paths := newTestManager(t)

	abs := filepath.Join(t.TempDir(), "file.bin")
	assert.Equal(t, abs, manager.resolvePath(abs))
	assert.Equal(t, paths.GetUploadPath("wb.xlsx"), manager.resolvePath("uploads/wb.xlsx"))
	assert.Equal(t, paths.GetReportPath("out.csv"), manager.resolvePath("reports/out.csv"))
	assert.Equal(t, paths.GetLogPath("app.log"), manager.resolvePath("logs/app.log"))
	assert.Equal(t, filepath.Join(paths.DataDir, "misc.bin"), manager.resolvePath("misc.bin"))
}

func TestFileRoundTrip(t *testing.T) {
	manager, _ := newTestManager(t)

	require.NoError(t, manager.WriteFile("reports/out.csv", []byte("a,b\n")))
	assert.True(t, manager.FileExists("reports/out.csv"))

	data, err := manager.ReadFile("reports/out.csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	size, err := manager.GetFileSize("reports/out.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(4), size)

	names, err := manager.ListFiles("reports/")
	require.NoError(t, err)
	assert.Equal(t, []string{"out.csv"}, names)

	require.NoError(t, manager.DeleteFile("reports/out.csv"))
	assert.False(t, manager.FileExists("reports/out.csv"))
}
