package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers [query]",
	Short: "List distinct providers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFacet(cmd, args, func(a *app, q string) []string { return a.explorer.AvailableProviders(q) })
	},
}

var modalitiesCmd = &cobra.Command{
	Use:   "modalities [query]",
	Short: "List distinct input modalities",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFacet(cmd, args, func(a *app, q string) []string { return a.explorer.AvailableModalities(q) })
	},
}

func runFacet(cmd *cobra.Command, args []string, values func(*app, string) []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.explorer.Load(ctx); err != nil {
		return err
	}

	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	for _, v := range values(a, query) {
		fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}
