package flags

import (
	"log/slog"
	"time"

	"github.com/oneagent-tests/installer-server/api"
	"github.com/oneagent-tests/installer-server/catalog"
	"github.com/oneagent-tests/installer-server/common"
	"github.com/oneagent-tests/installer-server/interfaces"
	"github.com/urfave/cli/v2"
)

// LoggingOpts collects the logging flags.
func LoggingOpts(cCtx *cli.Context) common.LoggingOpts {
	return common.LoggingOpts{
		Debug:   cCtx.Bool(LogDebugFlag.Name),
		JSON:    cCtx.Bool(LogJsonFlag.Name),
		UID:     cCtx.Bool(LogUidFlag.Name),
		Service: cCtx.String(LogServiceFlag.Name),
		Version: common.Version,
	}
}

// ConfigureServer builds the server configuration from the flags.
func ConfigureServer(cCtx *cli.Context) *api.HTTPServerConfig {
	return &api.HTTPServerConfig{
		BindAddress:              cCtx.String(BindAddressFlag.Name),
		Port:                     cCtx.Int(PortFlag.Name),
		LogFilePath:              cCtx.String(LogFileFlag.Name),
		Logging:                  LoggingOpts(cCtx),
		ServerWorkDir:            cCtx.String(ServerDirFlag.Name),
		InstallersWorkDir:        cCtx.String(InstallersDirFlag.Name),
		CACertFileName:           cCtx.String(CACertNameFlag.Name),
		MetricsAddr:              cCtx.String(MetricsAddrFlag.Name),
		EnablePprof:              cCtx.Bool(PprofFlag.Name),
		GracefulShutdownDuration: time.Duration(cCtx.Int64(ShutdownSecondsFlag.Name)) * time.Second,
		ReadTimeout:              60 * time.Second,
	}
}

// SetupCatalog returns the manifest catalog when a manifest is given and a
// directory catalog over the installers directory otherwise.
func SetupCatalog(cCtx *cli.Context, logger *slog.Logger) (interfaces.InstallerCatalog, error) {
	if manifest := cCtx.String(CatalogManifestFlag.Name); manifest != "" {
		return catalog.LoadManifestCatalog(manifest, logger)
	}
	return catalog.NewFileCatalog(cCtx.String(InstallersDirFlag.Name), cCtx.String(InstallerPrefixFlag.Name), logger), nil
}

var BindAddressFlag = &cli.StringFlag{
	Name:  "bind-address",
	Value: "127.0.0.1",
	Usage: "address to listen on, also used as the server certificate common name",
}
var PortFlag = &cli.IntFlag{
	Name:  "port",
	Value: 8021,
	Usage: "port to listen on",
}
var LogFileFlag = &cli.StringFlag{
	Name:  "log-file",
	Value: "installer_server.log",
	Usage: "file receiving a copy of the server log",
}
var ServerDirFlag = &cli.StringFlag{
	Name:     "server-dir",
	Required: true,
	Usage:    "directory the server key and certificate are generated in",
}
var InstallersDirFlag = &cli.StringFlag{
	Name:     "installers-dir",
	Required: true,
	Usage:    "directory holding installers and the CA certificate",
}
var CACertNameFlag = &cli.StringFlag{
	Name:  "ca-cert-name",
	Value: interfaces.DefaultCACertFileName,
	Usage: "CA certificate file name inside installers-dir, served under the same URL path",
}
var InstallerPrefixFlag = &cli.StringFlag{
	Name:  "installer-prefix",
	Value: catalog.DefaultInstallerPrefix,
	Usage: "file name prefix of installers in installers-dir",
}
var CatalogManifestFlag = &cli.StringFlag{
	Name:  "catalog-manifest",
	Usage: "YAML manifest listing installers; overrides scanning installers-dir",
}
var ShutdownSecondsFlag = &cli.Int64Flag{
	Name:  "shutdown-seconds",
	Value: 30,
	Usage: "seconds to wait for in-flight downloads on shutdown",
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}
var LogServiceFlag = &cli.StringFlag{
	Name:  "log-service",
	Value: "installer-server",
	Usage: "add 'service' tag to logs",
}

var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}
var MetricsAddrFlag = &cli.StringFlag{
	Name:  "metrics-addr",
	Value: "",
	Usage: "address to listen on for Prometheus metrics, disabled when empty",
}

var ServerFlags = []cli.Flag{
	BindAddressFlag,
	PortFlag,
	LogFileFlag,
	ServerDirFlag,
	InstallersDirFlag,
	CACertNameFlag,
	InstallerPrefixFlag,
	CatalogManifestFlag,
	ShutdownSecondsFlag,
}

var CommonFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
	LogServiceFlag,
	PprofFlag,
	MetricsAddrFlag,
}
