package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"

	"github.com/oneagent-tests/installer-server/api"
	"github.com/oneagent-tests/installer-server/api/certhandler"
	"github.com/oneagent-tests/installer-server/api/installerhandler"
	"github.com/oneagent-tests/installer-server/common"
	"github.com/oneagent-tests/installer-server/cryptoutils"
	"github.com/oneagent-tests/installer-server/interfaces"
	"github.com/oneagent-tests/installer-server/metrics"
)

// CatalogFactory builds the installer catalog with the server logger.
type CatalogFactory func(log *slog.Logger) (interfaces.InstallerCatalog, error)

// Dependencies are the collaborators Run wires into the server. Catalog wins
// over NewCatalog when both are set.
type Dependencies struct {
	Catalog     interfaces.InstallerCatalog
	NewCatalog  CatalogFactory
	Provisioner interfaces.CertificateProvisioner

	// OnListening, if set, is called with the bound address once the
	// listener accepts connections.
	OnListening func(addr net.Addr)
}

// ServerSubject is the subject of the generated server certificate; the
// common name is filled in with the bind address.
func ServerSubject(bindAddress string) interfaces.CertificateSubject {
	return interfaces.CertificateSubject{
		Country:      "US",
		State:        "California",
		Locality:     "San Francisco",
		Organization: "Dynatrace",
		CommonName:   bindAddress,
	}
}

// Run sets up logging, provisions the server certificate, binds the TLS
// listener and serves until stop fires or ctx is cancelled. It returns after
// the listener has been released.
//
// Provisioning failures are wrapped in interfaces.ErrProvisioningFailed and
// happen before anything is bound; listener failures are wrapped in
// interfaces.ErrBindFailed. A listener that dies while serving is returned
// as is.
//
// A nil stop never fires; ctx alone then ends serving.
func Run(ctx context.Context, cfg *api.HTTPServerConfig, deps Dependencies, stop *StopSignal) error {
	if cfg.BindAddress == "" {
		return errors.New("bind address is required")
	}
	if (deps.Catalog == nil && deps.NewCatalog == nil) || deps.Provisioner == nil {
		return errors.New("installer catalog and certificate provisioner are required")
	}

	var logWriter io.Writer = os.Stdout
	if cfg.LogFilePath != "" {
		w, closer, err := common.OpenLogFile(cfg.LogFilePath)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer closer.Close()
		logWriter = w
	}
	logOpts := cfg.Logging
	logOpts.Writer = logWriter
	logger := common.SetupLogger(&logOpts)

	installerCatalog := deps.Catalog
	if installerCatalog == nil {
		c, err := deps.NewCatalog(logger)
		if err != nil {
			logger.Error("Failed to load installer catalog", "err", err)
			return fmt.Errorf("failed to load installer catalog: %w", err)
		}
		installerCatalog = c
	}

	logger.Info("Generating server certificate", "commonName", cfg.BindAddress, "dir", cfg.ServerWorkDir)
	if err := deps.Provisioner.Provision(ServerSubject(cfg.BindAddress), cfg.ServerKeyPath(), cfg.ServerCertPath()); err != nil {
		logger.Error("Failed to generate server certificate", "err", err)
		return fmt.Errorf("%w: %w", interfaces.ErrProvisioningFailed, err)
	}
	if err := cryptoutils.VerifyCertificateFiles(cfg.ServerKeyPath(), cfg.ServerCertPath(), cfg.BindAddress); err != nil {
		logger.Error("Generated server certificate is unusable", "err", err)
		return fmt.Errorf("%w: %w", interfaces.ErrProvisioningFailed, err)
	}

	m := metrics.NewMetrics(common.PackageName)
	srv := New(cfg, logger, m,
		installerhandler.NewHandler(installerCatalog, m, logger),
		certhandler.NewHandler(cfg.CACertName(), cfg.CACertPath(), m, logger),
	)

	if err := srv.Start(); err != nil {
		logger.Error("Failed to start server", "err", err)
		return err
	}
	if deps.OnListening != nil {
		deps.OnListening(srv.Addr())
	}

	var stopped <-chan struct{}
	if stop != nil {
		stopped = stop.Done()
	}

	select {
	case <-stopped:
	case <-ctx.Done():
	case <-srv.Done():
	}

	logger.Info("Stopping server...")
	srv.Shutdown()
	logger.Info("Server shutdown complete")

	return srv.Err()
}
