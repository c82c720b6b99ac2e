package api

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// TransferResult is the outcome of resolving a file request: either an open
// file to stream back (Ok) or a message with an HTTP status (Failure).
type TransferResult struct {
	file       *os.File
	message    string
	statusCode int
}

// Ok wraps an open file. Writing the result closes it.
func Ok(file *os.File) TransferResult {
	return TransferResult{file: file, statusCode: http.StatusOK}
}

// Failure carries a plain-text message and the status to send it with.
func Failure(message string, statusCode int) TransferResult {
	return TransferResult{message: message, statusCode: statusCode}
}

// IsOk reports whether the result holds a file.
func (r TransferResult) IsOk() bool {
	return r.file != nil
}

// StatusCode is http.StatusOK for Ok results.
func (r TransferResult) StatusCode() int {
	return r.statusCode
}

// Message is empty for Ok results.
func (r TransferResult) Message() string {
	return r.message
}

// File returns the file of an Ok result, nil otherwise.
func (r TransferResult) File() *os.File {
	return r.file
}

// Close releases the file of an Ok result. It is safe on Failure results.
func (r TransferResult) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// Write sends the result to w. Files are streamed as-is with a content type
// derived from their extension; failures are written as plain text with no
// trailing newline.
func (r TransferResult) Write(w http.ResponseWriter, req *http.Request) {
	if r.file == nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(r.statusCode)
		io.WriteString(w, r.message)
		return
	}
	defer r.file.Close()

	info, err := r.file.Stat()
	if err != nil {
		http.Error(w, "Failed to stat file", http.StatusInternalServerError)
		return
	}

	name := filepath.Base(r.file.Name())
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))

	http.ServeContent(w, req, name, info.ModTime(), r.file)
}

// RequestError provides structured error information for HTTP responses.
// Clients return it for non-200 answers so callers can inspect the status.
type RequestError struct {
	// StatusCode is the HTTP status code returned by the server.
	StatusCode int

	// Err carries the response message.
	Err error
}

// Error returns the error message from the underlying error.
func (e *RequestError) Error() string {
	return e.Err.Error()
}

// Unwrap exposes the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Err
}
