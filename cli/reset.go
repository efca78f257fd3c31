package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the local SQLite store",
		Long:  "Deletes every listing, saved reference, sync run and queued command from DB_PATH. Remote and Postgres data are not touched.",
		Args:  cobra.NoArgs,
		RunE:  runReset,
	}

	cmd.Flags().Bool("yes", false, "Confirm the reset")

	RootCmd.AddCommand(cmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if a.sqlite == nil {
		return fmt.Errorf("nothing to reset: neither PROPERTY_BACKEND nor SAVED_BACKEND is sqlite")
	}
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		return fmt.Errorf("reset deletes all local data in %s; rerun with --yes", a.cfg.DBPath)
	}

	if err := a.sqlite.ResetAllData(); err != nil {
		return err
	}
	if a.cache != nil {
		if err := a.cache.Invalidate(cmd.Context()); err != nil {
			log.Printf("Warning: failed to invalidate cache: %v", err)
		}
	}
	log.Printf("Reset local store %s", a.cfg.DBPath)

	if formatFlag == "json" {
		fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"db_path":%q}`+"\n", a.cfg.DBPath)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", a.cfg.DBPath)
	return nil
}
