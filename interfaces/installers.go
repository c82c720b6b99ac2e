// Package interfaces defines the contracts between the installer server and
// its collaborators: the installer catalog and the certificate provisioner.
package interfaces

import (
	"errors"

	"github.com/oneagent-tests/installer-server/cryptoutils"
)

// CertificateSubject is the distinguished name a provisioned certificate is issued for.
type CertificateSubject = cryptoutils.CertificateSubject

// Well-known file names inside the server and installers work directories.
const (
	ServerPrivateKeyFileName  = "server.key"
	ServerCertificateFileName = "server.crt"

	// DefaultCACertFileName is the CA bundle deployments download to verify
	// installer signatures against.
	DefaultCACertFileName = "dt-root.cert.pem"

	// LatestVersion selects the newest installer the catalog knows about.
	LatestVersion = "latest"
)

var (
	// ErrProvisioningFailed wraps certificate provisioning errors at startup.
	ErrProvisioningFailed = errors.New("server certificate provisioning failed")

	// ErrBindFailed wraps listener errors (port in use, unusable TLS material).
	ErrBindFailed = errors.New("failed to bind TLS listener")
)

// InstallerCatalog maps (system, architecture, version) onto installer files.
// The returned paths are ordered so that the last element is the preferred
// match. An empty slice with a nil error means nothing matched.
type InstallerCatalog interface {
	Installers(system, arch, version string, preferLatest bool) ([]string, error)
}

// CertificateProvisioner writes a private key and a certificate for subject
// to keyPath and certPath, replacing any existing files.
type CertificateProvisioner interface {
	Provision(subject CertificateSubject, keyPath, certPath string) error
}
