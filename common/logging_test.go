package common

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger_TextWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(&LoggingOpts{
		Service: "installer-server",
		Version: "1.2.3",
		UID:     true,
		Writer:  &buf,
	})

	logger.Info("Serving installer", "path", "/a/inst-2.0.pkg")
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "time=")
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "service=installer-server")
	assert.Contains(t, out, "version=1.2.3")
	assert.Contains(t, out, "uid=")
	assert.Contains(t, out, "path=/a/inst-2.0.pkg")
	assert.NotContains(t, out, "hidden")
}

func TestSetupLogger_JSONDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(&LoggingOpts{Debug: true, JSON: true, Writer: &buf})

	logger.Debug("visible")
	assert.Contains(t, buf.String(), `"msg":"visible"`)
	assert.Contains(t, buf.String(), `"level":"DEBUG"`)
}

func TestOpenLogFile_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0o644))

	w, closer, err := OpenLogFile(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("next run\n"))
	require.NoError(t, err)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous run\nnext run\n", string(data))
}

func TestOpenLogFile_MissingDirectory(t *testing.T) {
	_, _, err := OpenLogFile(filepath.Join(t.TempDir(), "missing", "server.log"))
	require.Error(t, err)
}
