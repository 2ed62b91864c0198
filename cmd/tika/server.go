package main

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/axondata/go-tika"

	"github.com/spf13/cobra"
)

var (
	flagServerAddr  string
	flagServerWatch bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run a managed local tika server until interrupted",
	RunE:  doServer,
}

func doServer(cmd *cobra.Command, args []string) error {
	opts := []tika.Option{
		tika.WithLogger(slog.Default()),
		tika.WithVerbose(flagVerbose || config.Verbose),
	}
	if config.Version != "" {
		opts = append(opts, tika.WithVersion(config.Version))
	}
	if config.StorageDir != "" {
		opts = append(opts, tika.WithStorageDir(config.StorageDir))
	}

	managed, err := tika.NewManaged(flagServerAddr, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = managed.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := managed.StartServer(ctx); err != nil {
		return err
	}
	slog.Info("tika server ready", "endpoint", managed.Endpoint().String())

	if !flagServerWatch {
		<-ctx.Done()
		return managed.StopServer()
	}

	events, cleanup, err := managed.WatchArtifact(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	for {
		select {
		case <-ctx.Done():
			return managed.StopServer()

		case event := <-events:
			if event.Err != nil {
				slog.Warn("artifact watch", "error", event.Err)
				continue
			}
			slog.Info("artifact changed, restarting server", "path", event.Location.Path)
			if err := managed.RestartServer(ctx, ""); err != nil {
				return err
			}
		}
	}
}
