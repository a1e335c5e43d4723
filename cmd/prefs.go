package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// prefsCmd groups preference maintenance commands
var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect or reset persisted preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every persisted preference",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.log.Sync()

		if !rt.store.Enabled() {
			return fmt.Errorf("no preference database available")
		}

		rows, err := rt.store.All(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read preferences: %w", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}

		fmt.Println("\n--- Preferences ---")
		for _, p := range rows {
			fmt.Printf("%-18s %-24s %s\n", p.Key, p.Value, p.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset-counters",
	Short: "Zero the persisted cache hit and miss counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.log.Sync()

		if !rt.store.Enabled() {
			return fmt.Errorf("no preference database available")
		}
		if err := rt.store.ResetCounters(cmd.Context()); err != nil {
			return err
		}
		rt.log.Info("Cache counters reset")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsShowCmd, prefsResetCmd)

	prefsShowCmd.Flags().Bool("json", false, "Output JSON")
}
