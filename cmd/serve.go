package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/desertthunder/trackport/internal/server"
	"github.com/desertthunder/trackport/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the JSON API until interrupted.
//
// With --open the track list is opened in the default browser once the listener is started.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if r.catalog == nil {
		r.logger.Warn("spotify credentials not configured, imports and catalog search are disabled")
	}

	host := r.config.Server.Host
	if cmd.IsSet("host") {
		host = cmd.String("host")
	}
	port := r.config.Server.Port
	if cmd.IsSet("port") {
		port = cmd.Int("port")
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	logger := shared.WithLogger(r.logger, "component", "http")
	api := server.NewAPI(r.importer(s, r.logger), s.tracks, r.catalog, logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	url := fmt.Sprintf("http://%s/api/tracks", addr)
	ready := func() {
		r.writePlain("Serving track catalog at http://%s (Ctrl+C to stop)\n", addr)
		if cmd.Bool("open") {
			if err := shared.OpenBrowser(url); err != nil {
				r.logger.Warn("failed to open browser", "error", err)
				r.writePlain("Open %s in your browser\n", url)
			}
		}
	}

	return server.Serve(ctx, addr, api, logger, ready)
}
