/*
Package api provides the HTTP surface of the installer test server.

The server is a short-lived HTTPS endpoint that deployment test runs download
agent installers and a CA certificate from. It is organized into:

 1. installerhandler - resolves (system, arch, version) onto an installer file
 2. certhandler - serves the CA certificate bundle
 3. server - TLS listener lifecycle: provision, bind, serve, stop

This package holds the pieces they share: the server configuration and
TransferResult, the tagged outcome every file endpoint produces.

# Routes

	GET /api/v1/deployment/installer/agent/{system}/default/latest?arch=...
	GET /api/v1/deployment/installer/agent/{system}/default/version/{version}?arch=...
	GET /{ca-cert-file-name}
	GET /livez
	GET /readyz

Failures are plain text. A missing arch query parameter is a 400, an unknown
installer or a missing CA file is a 404, and a file the catalog listed but
that cannot be opened is a 500.
*/
package api
