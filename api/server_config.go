package api

import (
	"path/filepath"
	"time"

	"github.com/oneagent-tests/installer-server/common"
	"github.com/oneagent-tests/installer-server/interfaces"
)

// DefaultGracefulShutdownDuration bounds how long in-flight transfers may
// run after a stop is requested.
const DefaultGracefulShutdownDuration = 30 * time.Second

// HTTPServerConfig contains all configuration parameters for the installer server.
type HTTPServerConfig struct {
	// BindAddress is the address to listen on. It is also the common name
	// of the generated server certificate.
	BindAddress string

	// Port to listen on. Zero picks a free port.
	Port int

	// LogFilePath receives a copy of everything written to stdout.
	LogFilePath string

	// Logging controls format and level. Writer is ignored; Run always
	// writes to LogFilePath and stdout.
	Logging common.LoggingOpts

	// ServerWorkDir holds the generated server.key and server.crt.
	ServerWorkDir string

	// InstallersWorkDir holds the CA certificate served to clients.
	InstallersWorkDir string

	// CACertFileName is both the file name in InstallersWorkDir and the
	// URL path it is served under. Defaults to interfaces.DefaultCACertFileName.
	CACertFileName string

	// MetricsAddr is the address for the Prometheus metrics listener.
	// If empty, metrics are collected but not exposed.
	MetricsAddr string

	// EnablePprof enables the pprof debugging API when true.
	EnablePprof bool

	// GracefulShutdownDuration is the maximum time to wait for in-flight
	// requests to complete during shutdown.
	GracefulShutdownDuration time.Duration

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of
	// the response. Zero means no limit, which suits large installers.
	WriteTimeout time.Duration
}

// ServerKeyPath is where the server private key is generated.
func (c *HTTPServerConfig) ServerKeyPath() string {
	return filepath.Join(c.ServerWorkDir, interfaces.ServerPrivateKeyFileName)
}

// ServerCertPath is where the server certificate is generated.
func (c *HTTPServerConfig) ServerCertPath() string {
	return filepath.Join(c.ServerWorkDir, interfaces.ServerCertificateFileName)
}

// CACertName returns the configured CA file name or the default.
func (c *HTTPServerConfig) CACertName() string {
	if c.CACertFileName == "" {
		return interfaces.DefaultCACertFileName
	}
	return c.CACertFileName
}

// CACertPath is the CA certificate served to clients.
func (c *HTTPServerConfig) CACertPath() string {
	return filepath.Join(c.InstallersWorkDir, c.CACertName())
}

// ShutdownTimeout returns GracefulShutdownDuration or its default.
func (c *HTTPServerConfig) ShutdownTimeout() time.Duration {
	if c.GracefulShutdownDuration <= 0 {
		return DefaultGracefulShutdownDuration
	}
	return c.GracefulShutdownDuration
}
