package catalog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.0", "2.0", -1},
		{"1.10", "1.9", 1},
		{"1.300.0.20240101-120000", "1.300.0.20240102-090000", -1},
		{"1.300.0.20240101-120000", "1.299.9.20250101-000000", 1},
		{"1.2", "1.2.1", -1},
		{"1.2.rc", "1.2.1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareVersions(tt.a, tt.b))
			assert.Equal(t, -tt.want, CompareVersions(tt.b, tt.a))
		})
	}
}

func TestTrimExtension(t *testing.T) {
	assert.Equal(t, "1.300.0.20240101-120000", trimExtension("1.300.0.20240101-120000.sh"))
	assert.Equal(t, "1.300.0.20240101-120000", trimExtension("1.300.0.20240101-120000"))
	assert.Equal(t, "2.0", trimExtension("2.0.tar.gz"))
	assert.Equal(t, "2.0", trimExtension("2.0.exe"))
}

func TestFileCatalog_LatestOrdersNewestLast(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"Dynatrace-OneAgent-linux-x86_64-1.300.0.20240101-120000.sh",
		"Dynatrace-OneAgent-linux-x86_64-1.10.0.20230101-120000.sh",
		"Dynatrace-OneAgent-linux-x86_64-1.9.0.20220101-120000.sh",
		"Dynatrace-OneAgent-linux-arm64-1.400.0.20250101-120000.sh",
		"Dynatrace-OneAgent-windows-x86_64-1.500.0.20250101-120000.exe",
		"unrelated.txt",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Dynatrace-OneAgent-linux-x86_64-9.9"), 0o755))

	c := NewFileCatalog(dir, "", testLogger())
	paths, err := c.Installers("linux", "x86_64", "latest", true)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "Dynatrace-OneAgent-linux-x86_64-1.9.0.20220101-120000.sh"),
		filepath.Join(dir, "Dynatrace-OneAgent-linux-x86_64-1.10.0.20230101-120000.sh"),
		filepath.Join(dir, "Dynatrace-OneAgent-linux-x86_64-1.300.0.20240101-120000.sh"),
	}, paths)
}

func TestFileCatalog_VersionMatching(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"Dynatrace-OneAgent-linux-x86_64-1.300.0.20240101-120000.sh",
		"Dynatrace-OneAgent-linux-x86_64-1.300.2.20240301-120000.sh",
		"Dynatrace-OneAgent-linux-x86_64-1.3001.0.20240401-120000.sh",
	)
	c := NewFileCatalog(dir, DefaultInstallerPrefix, testLogger())

	paths, err := c.Installers("linux", "x86_64", "1.300", true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "Dynatrace-OneAgent-linux-x86_64-1.300.0.20240101-120000.sh"),
		filepath.Join(dir, "Dynatrace-OneAgent-linux-x86_64-1.300.2.20240301-120000.sh"),
	}, paths)

	paths, err = c.Installers("linux", "x86_64", "1.300", false)
	require.NoError(t, err)
	assert.Empty(t, paths)

	paths, err = c.Installers("linux", "x86_64", "1.300.2.20240301-120000", false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "Dynatrace-OneAgent-linux-x86_64-1.300.2.20240301-120000.sh")}, paths)
}

func TestFileCatalog_CaseSensitiveKeys(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Dynatrace-OneAgent-Linux-x86_64-1.0.sh")
	c := NewFileCatalog(dir, "", testLogger())

	paths, err := c.Installers("linux", "x86_64", "latest", true)
	require.NoError(t, err)
	assert.Empty(t, paths)

	paths, err = c.Installers("Linux", "x86_64", "latest", true)
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}

func TestFileCatalog_CustomPrefix(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "agent-aix-ppc-2.0.sh", "Dynatrace-OneAgent-aix-ppc-3.0.sh")
	c := NewFileCatalog(dir, "agent", testLogger())

	paths, err := c.Installers("aix", "ppc", "latest", true)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "agent-aix-ppc-2.0.sh")}, paths)
}

func TestFileCatalog_MissingDirectory(t *testing.T) {
	c := NewFileCatalog(filepath.Join(t.TempDir(), "missing"), "", testLogger())
	_, err := c.Installers("linux", "x86_64", "latest", true)
	require.Error(t, err)
}

func TestManifestCatalog(t *testing.T) {
	dir := t.TempDir()
	manifest := `installers:
  - system: linux
    arch: x86_64
    version: "2.0"
    path: linux/inst-2.0.pkg
  - system: linux
    arch: x86_64
    version: "1.0"
    path: /a/inst-1.0.pkg
  - system: windows
    arch: x86_64
    version: "3.0"
    path: win/inst-3.0.exe
`
	manifestPath := filepath.Join(dir, "installers.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifest), 0o644))

	c, err := LoadManifestCatalog(manifestPath, testLogger())
	require.NoError(t, err)

	paths, err := c.Installers("linux", "x86_64", "latest", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/inst-1.0.pkg", filepath.Join(dir, "linux/inst-2.0.pkg")}, paths)

	paths, err = c.Installers("linux", "x86_64", "9.9.9", true)
	require.NoError(t, err)
	assert.Empty(t, paths)

	paths, err = c.Installers("windows", "x86_64", "3.0", false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "win/inst-3.0.exe")}, paths)
}

func TestManifestCatalog_Invalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadManifestCatalog(filepath.Join(dir, "missing.yaml"), testLogger())
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("installers: [unterminated"), 0o644))
	_, err = LoadManifestCatalog(bad, testLogger())
	require.Error(t, err)

	incomplete := filepath.Join(dir, "incomplete.yaml")
	require.NoError(t, os.WriteFile(incomplete, []byte("installers:\n  - system: linux\n    path: x\n"), 0o644))
	_, err = LoadManifestCatalog(incomplete, testLogger())
	require.ErrorIs(t, err, errIncompleteEntry)
}
