package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/hitsend/packages/history"
	"github.com/spf13/cobra"
)

func newHistoryCmd(g *globalFlags) *cobra.Command {
	var (
		limit int
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show transactions logged with --history",
		Long: `Show the most recent transactions from the SQLite log named by
--history, HITSEND_HISTORY or the "history" config key.

Examples:
  hitsend --history ~/.hitsend.db get https://example.com
  hitsend --history ~/.hitsend.db history -n 5
  hitsend --history ~/.hitsend.db history --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.settings(cmd)
			if err != nil {
				return err
			}
			if cfg.History == "" {
				return usageError(fmt.Errorf("no history file: set --history, HITSEND_HISTORY or the history config key"))
			}

			store, err := history.Open(cmd.Context(), cfg.History)
			if err != nil {
				return configError(err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if clearAll {
				n, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "removed %d entries\n", n)
				return nil
			}

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if cfg.Output == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"history": entries})
			}
			for _, e := range entries {
				outcome := fmt.Sprintf("%d %s %dB", e.Status, e.Duration.Round(time.Millisecond), e.Bytes)
				if e.Error != "" {
					outcome = "error: " + e.Error
				}
				fmt.Fprintf(out, "%s  %-6s %s  %s\n",
					e.Time.Local().Format(time.DateTime), e.Method, e.URL, outcome)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 shows all)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete every logged transaction")
	return cmd
}
