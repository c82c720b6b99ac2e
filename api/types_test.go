package api

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferResult_Failure(t *testing.T) {
	result := Failure("/work/ca.pem not found", http.StatusNotFound)
	assert.False(t, result.IsOk())
	assert.Nil(t, result.File())
	assert.NoError(t, result.Close())

	w := httptest.NewRecorder()
	result.Write(w, httptest.NewRequest(http.MethodGet, "/ca.pem", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "/work/ca.pem not found", w.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestTransferResult_OkStreamsFileAndCloses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "release-notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 binary"), 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	result := Ok(f)
	assert.True(t, result.IsOk())
	assert.Equal(t, http.StatusOK, result.StatusCode())

	w := httptest.NewRecorder()
	result.Write(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	resp := w.Result()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "%PDF-1.4 binary", string(body))
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename=release-notes.pdf`, resp.Header.Get("Content-Disposition"))

	// Write closed the file
	_, err = f.Read(make([]byte, 1))
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestTransferResult_UnknownExtensionIsOctetStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Dynatrace-OneAgent-linux-x86_64-1.0.zzinstaller")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho hi\n"), 0o644))
	f, err := os.Open(path)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	Ok(f).Write(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
}

func TestTransferResult_RangeRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inst.bin")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))
	f, err := os.Open(path)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Range", "bytes=2-5")
	w := httptest.NewRecorder()
	Ok(f).Write(w, req)

	assert.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "2345", w.Body.String())
}

func TestRequestError(t *testing.T) {
	inner := errors.New("nope")
	err := &RequestError{StatusCode: http.StatusNotFound, Err: inner}
	assert.Equal(t, "nope", err.Error())
	assert.ErrorIs(t, err, inner)
}
