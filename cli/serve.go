package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"estate_browser/api"
	"estate_browser/scheduler"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browse API and run scheduled syncs",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default $HTTP_ADDR or :8080)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = a.cfg.HTTPAddr
	}

	log.Printf("Starting estate server (properties: %s, saved: %s)", a.cfg.PropertyBackend, a.cfg.SavedBackend)

	var syncer scheduler.Syncer
	if a.sync != nil {
		syncer = a.sync
	}
	var commands scheduler.CommandQueue
	if a.sqlite != nil {
		commands = a.sqlite
	}
	var cache scheduler.Invalidator
	if a.cache != nil {
		cache = a.cache
	}
	sched := scheduler.New(a.cfg.Sync, syncer, commands, cache)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	server := api.NewServer(a.browse)
	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(addr) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Goodbye!")
	return nil
}
