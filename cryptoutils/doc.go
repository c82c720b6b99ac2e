// Package cryptoutils generates and checks the self-signed TLS material the
// installer server presents to deployment clients.
package cryptoutils
