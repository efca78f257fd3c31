package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"estate_browser/config"
)

func init() {
	saved := &cobra.Command{
		Use:   "saved",
		Short: "Manage saved listings",
	}

	saved.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved listings with notes",
		Args:  cobra.NoArgs,
		RunE:  runSavedList,
	})
	saved.AddCommand(&cobra.Command{
		Use:   "add <property-id>",
		Short: "Save a listing",
		Args:  cobra.ExactArgs(1),
		RunE:  runSavedAdd,
	})
	saved.AddCommand(&cobra.Command{
		Use:   "rm <property-id>",
		Short: "Remove a listing from the saved set",
		Args:  cobra.ExactArgs(1),
		RunE:  runSavedRm,
	})
	saved.AddCommand(&cobra.Command{
		Use:   "note <saved-id> <text...>",
		Short: "Replace the note on a saved listing (empty text clears it)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSavedNote,
	})

	RootCmd.AddCommand(saved)
}

func runSavedList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	listings, err := a.browse.SavedListings(cmd.Context())
	if err != nil {
		return err
	}
	return printSaved(cmd.OutOrStdout(), listings)
}

func runSavedAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sp, err := a.browse.Save(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	warnEphemeral(cmd, a)
	if formatFlag == "json" {
		return printJSON(cmd.OutOrStdout(), sp)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s as %s\n", sp.PropertyID, sp.ID)
	return nil
}

func runSavedRm(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.browse.Unsave(cmd.Context(), args[0]); err != nil {
		return err
	}
	warnEphemeral(cmd, a)
	if formatFlag == "json" {
		fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"property_id":%q}`+"\n", args[0])
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
	return nil
}

func runSavedNote(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sp, err := a.browse.UpdateNote(cmd.Context(), args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	warnEphemeral(cmd, a)
	if formatFlag == "json" {
		return printJSON(cmd.OutOrStdout(), sp)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "updated note on %s\n", sp.ID)
	return nil
}

// warnEphemeral flags saved-set changes that only live as long as the process
func warnEphemeral(cmd *cobra.Command, a *app) {
	if a.cfg.SavedBackend == config.BackendMemory {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: SAVED_BACKEND=memory, this change is discarded when the command exits")
	}
}
