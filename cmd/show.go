package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"modelexplorer/explorer"

	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <model-id>",
	Short: "Show details of one model",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.explorer.Load(cmd.Context()); err != nil {
		return err
	}

	m, ok := a.explorer.Model(args[0])
	if !ok {
		return fmt.Errorf("model not found: %s", args[0])
	}

	out := cmd.OutOrStdout()
	if showJSON {
		return printJSON(out, m)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", m.ID)
	fmt.Fprintf(w, "Name:\t%s\n", m.Name)
	fmt.Fprintf(w, "Provider:\t%s\n", m.Provider)
	fmt.Fprintf(w, "Modality:\t%s\n", m.Modality)
	fmt.Fprintf(w, "Tokenizer:\t%s\n", m.Tokenizer)
	fmt.Fprintf(w, "Context:\t%s\n", formatContext(m.ContextLength))
	fmt.Fprintf(w, "Pricing:\t%s\n", explorer.FormatPricing(m))
	if m.Created > 0 {
		fmt.Fprintf(w, "Created:\t%s\n", time.Unix(m.Created, 0).UTC().Format("2006-01-02"))
	}
	fmt.Fprintf(w, "Description:\t%s\n", m.Description)
	return w.Flush()
}
