package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"estate_browser/models"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror the upstream catalog into the local SQLite store",
		Long:  "Copies every listing from SYNC_SOURCE (static, postgres or remote) into the local store and removes listings that disappeared upstream.",
		Args:  cobra.NoArgs,
		RunE:  runSync,
	}

	cmd.Flags().Bool("queue", false, "Ask a running server to sync instead of syncing here")
	cmd.Flags().Bool("history", false, "Show recent sync runs")
	cmd.Flags().Int("runs", 10, "Number of runs to show with --history")

	RootCmd.AddCommand(cmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	queue, _ := cmd.Flags().GetBool("queue")
	history, _ := cmd.Flags().GetBool("history")
	limit, _ := cmd.Flags().GetInt("runs")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	switch {
	case history:
		if a.sqlite == nil {
			return fmt.Errorf("sync history lives in SQLite; set PROPERTY_BACKEND=sqlite")
		}
		runs, err := a.sqlite.ListSyncRuns(cmd.Context(), limit)
		if err != nil {
			return err
		}
		return printSyncRuns(out, runs)

	case queue:
		if a.sqlite == nil {
			return fmt.Errorf("queued commands need PROPERTY_BACKEND=sqlite")
		}
		if err := a.sqlite.EnqueueCommand(cmd.Context(), models.CmdSyncNow); err != nil {
			return err
		}
		fmt.Fprintln(out, "sync queued")
		return nil
	}

	if a.sync == nil {
		return fmt.Errorf("no SYNC_SOURCE configured")
	}
	run, err := a.sync.Run(cmd.Context())
	if err != nil {
		return err
	}
	if formatFlag == "json" {
		return printJSON(out, run)
	}
	fmt.Fprintf(out, "synced from %s: %d fetched, %d upserted, %d skipped, %d deleted\n",
		run.Source, run.Fetched, run.Upserted, run.Skipped, run.Deleted)
	return nil
}
