/*
Package server runs the installer server's TLS listener.

Run is the blocking entry point used by test harnesses and the CLI:

 1. logging goes to the configured file and stdout
 2. a fresh self-signed key pair is written to the server work directory
 3. installer and CA certificate routes are registered on a router owned by
    this server instance
 4. the TLS listener binds BindAddress:Port with that key pair
 5. requests are served until the StopSignal fires
 6. the listener is shut down gracefully and Run returns

Certificate generation strictly precedes the bind, so a provisioning failure
never leaves a listener behind. Per-request failures never stop the server.

Server can also be driven directly with New, Start and Shutdown when the
caller manages certificates itself.
*/
package server
