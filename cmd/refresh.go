package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshClear bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the catalogue now and rewrite the snapshot",
	RunE:  runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshClear, "clear", false, "Delete the snapshot before fetching")
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if refreshClear {
		if err := a.cache.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}
	}

	n, err := a.explorer.Refresh(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d models\n", n)
	return nil
}
