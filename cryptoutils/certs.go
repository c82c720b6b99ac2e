package cryptoutils

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"os"
	"time"
)

// DefaultCertificateValidity is how long provisioned server certificates stay valid.
const DefaultCertificateValidity = 365 * 24 * time.Hour

// CertificateSubject describes who a self-signed certificate is issued to.
type CertificateSubject struct {
	Country      string
	State        string
	Locality     string
	Organization string
	CommonName   string
}

func (s CertificateSubject) pkixName() pkix.Name {
	name := pkix.Name{CommonName: s.CommonName}
	if s.Country != "" {
		name.Country = []string{s.Country}
	}
	if s.State != "" {
		name.Province = []string{s.State}
	}
	if s.Locality != "" {
		name.Locality = []string{s.Locality}
	}
	if s.Organization != "" {
		name.Organization = []string{s.Organization}
	}
	return name
}

// SelfSignedProvisioner generates an ECDSA P-256 key and a self-signed
// certificate and writes both as PEM files.
type SelfSignedProvisioner struct {
	// Validity defaults to DefaultCertificateValidity.
	Validity time.Duration
}

// Provision generates a fresh key pair for subject and writes the key to
// keyPath and the certificate to certPath, overwriting existing files.
// The common name is also put in the SAN list so that TLS clients can
// verify the server by IP address or host name.
func (p *SelfSignedProvisioner) Provision(subject CertificateSubject, keyPath, certPath string) error {
	keyPEM, certPEM, err := p.Generate(subject)
	if err != nil {
		return err
	}

	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(keyPath, 0o600); err != nil {
		return fmt.Errorf("failed to restrict private key permissions: %w", err)
	}

	if err := os.WriteFile(certPath, certPEM, 0o644); err != nil {
		return fmt.Errorf("failed to write certificate: %w", err)
	}
	return nil
}

// Generate returns a PEM encoded PKCS#8 private key and a PEM encoded
// self-signed certificate for subject.
func (p *SelfSignedProvisioner) Generate(subject CertificateSubject) (keyPEM, certPEM []byte, err error) {
	if subject.CommonName == "" {
		return nil, nil, errors.New("certificate subject requires a common name")
	}

	validity := p.Validity
	if validity == 0 {
		validity = DefaultCertificateValidity
	}

	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate private key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate serial number: %w", err)
	}

	notBefore := time.Now().Add(-time.Minute)
	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               subject.pkixName(),
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(validity),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	if ip := net.ParseIP(subject.CommonName); ip != nil {
		template.IPAddresses = []net.IP{ip}
	} else {
		template.DNSNames = []string{subject.CommonName}
	}

	certDER, err := x509.CreateCertificate(rand.Reader, template, template, privateKey.Public(), privateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	privateKeyBytes, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privateKeyBytes})
	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	return keyPEM, certPEM, nil
}

// VerifyCertificate validates that a certificate matches a given private key and has the expected common name.
// It performs the following checks:
//   - The certificate can be parsed correctly
//   - The common name matches the expected value
//   - The public key in the certificate corresponds to the provided private key
func VerifyCertificate(keyPEM, certPEM []byte, expectedCN string) error {
	keyBlock, _ := pem.Decode(keyPEM)
	if keyBlock == nil || keyBlock.Type != "PRIVATE KEY" {
		return errors.New("failed to decode private key PEM block")
	}

	privateKey, err := x509.ParsePKCS8PrivateKey(keyBlock.Bytes)
	if err != nil {
		return fmt.Errorf("failed to parse private key: %w", err)
	}

	cert, err := ParseCertificatePEM(certPEM)
	if err != nil {
		return err
	}

	if cert.Subject.CommonName != expectedCN {
		return fmt.Errorf("CommonName is %s, expected %s", cert.Subject.CommonName, expectedCN)
	}

	signer, ok := privateKey.(crypto.Signer)
	if !ok {
		return errors.New("unsupported key type")
	}

	ecdsaCertKey, ok := cert.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return errors.New("unsupported key type")
	}
	if !ecdsaCertKey.Equal(signer.Public()) {
		return errors.New("private key doesn't match certificate")
	}
	return nil
}

// VerifyCertificateFiles reads a PEM key and certificate from disk and checks
// them with VerifyCertificate.
func VerifyCertificateFiles(keyPath, certPath, expectedCN string) error {
	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return fmt.Errorf("failed to read private key: %w", err)
	}
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return fmt.Errorf("failed to read certificate: %w", err)
	}
	return VerifyCertificate(keyPEM, certPEM, expectedCN)
}

// ParseCertificatePEM decodes the first CERTIFICATE block of certPEM.
func ParseCertificatePEM(certPEM []byte) (*x509.Certificate, error) {
	certBlock, _ := pem.Decode(certPEM)
	if certBlock == nil || certBlock.Type != "CERTIFICATE" {
		return nil, errors.New("failed to decode certificate PEM block")
	}

	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}
	return cert, nil
}
