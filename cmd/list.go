package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"modelexplorer/explorer"
	"modelexplorer/types"
	"modelexplorer/utils"

	"github.com/spf13/cobra"
)

var (
	listSearch     string
	listProviders  []string
	listModalities []string
	listPricing    []string
	listMinContext int
	listSort       string
	listDir        string
	listJSON       bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List catalogue models",
	Long:    "List models from the cached snapshot (fetching when it is missing or stale), filtered and sorted.",
	RunE:    runList,
}

func init() {
	f := listCmd.Flags()
	f.StringVarP(&listSearch, "search", "s", "", "Case-insensitive match on name or provider")
	f.StringSliceVarP(&listProviders, "provider", "p", nil, "Provider filter (repeatable)")
	f.StringSliceVarP(&listModalities, "modality", "m", nil, "Modality filter (repeatable)")
	f.StringSliceVar(&listPricing, "pricing", nil, "Pricing class: free, paid")
	f.IntVar(&listMinContext, "min-context", 0, "Minimum context length in thousands of tokens")
	f.StringVar(&listSort, "sort", string(explorer.SortName), "Sort field: provider, name, modality, pricing, contextLength")
	f.StringVar(&listDir, "dir", string(explorer.Asc), "Sort direction: asc, desc")
	f.BoolVar(&listJSON, "json", false, "Print JSON instead of a table")
}

func runList(cmd *cobra.Command, _ []string) error {
	patch := explorer.FilterPatch{Pricing: &listPricing}
	if err := patch.Validate(); err != nil {
		return err
	}
	if listMinContext < 0 {
		return fmt.Errorf("--min-context must be >= 0")
	}
	if _, err := explorer.ParseSortField(listSort); err != nil {
		return err
	}
	if _, err := explorer.ParseDirection(listDir); err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.explorer.Load(cmd.Context()); err != nil {
		return err
	}

	if _, err := a.explorer.SetSort(listSort, listDir); err != nil {
		return err
	}
	if _, err := a.explorer.SetFilter(explorer.FilterPatch{
		Search:     &listSearch,
		Providers:  &listProviders,
		Modalities: &listModalities,
		Pricing:    &listPricing,
		MinContext: &listMinContext,
	}); err != nil {
		return err
	}

	view := a.explorer.View()
	out := cmd.OutOrStdout()
	if listJSON {
		return printJSON(out, view)
	}
	if view.Count == 0 {
		fmt.Fprintln(out, "No models match the current filters.")
		return nil
	}
	if err := printModelTable(out, view.Models); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d of %d models\n", view.Count, view.Total)
	return nil
}

func printModelTable(out io.Writer, models []types.ModelRecord) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	headers := make([]string, len(types.Columns))
	for i, col := range types.Columns {
		headers[i] = strings.ToUpper(col.Label)
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, m := range models {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			m.Provider, m.Name, m.Modality, explorer.FormatPricing(m), formatContext(m.ContextLength))
	}
	return w.Flush()
}

func formatContext(k int) string {
	if k == 0 {
		return "-"
	}
	return fmt.Sprintf("%dK", k)
}

func printJSON(out io.Writer, v any) error {
	data, err := utils.SafeMarshalIndent(v)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func parseInterval(s string) (time.Duration, error) {
	if s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid interval %q", s)
	}
	return d, nil
}
