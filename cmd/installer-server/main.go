package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/oneagent-tests/installer-server/api/server"
	"github.com/oneagent-tests/installer-server/cmd/flags"
	"github.com/oneagent-tests/installer-server/cryptoutils"
	"github.com/oneagent-tests/installer-server/interfaces"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "installer-server",
		Usage: "Serve agent installers and the CA certificate over HTTPS for deployment tests",
		Flags: append(append([]cli.Flag{}, flags.ServerFlags...), flags.CommonFlags...),
		Action: func(cCtx *cli.Context) error {
			stop := server.NewStopSignal()
			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-exit
				stop.Stop()
			}()

			return server.Run(context.Background(), flags.ConfigureServer(cCtx), server.Dependencies{
				NewCatalog: func(logger *slog.Logger) (interfaces.InstallerCatalog, error) {
					return flags.SetupCatalog(cCtx, logger)
				},
				Provisioner: &cryptoutils.SelfSignedProvisioner{},
			}, stop)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
