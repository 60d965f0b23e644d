package cmd

import (
	"fmt"
	"strconv"

	"github.com/abdul-hamid-achik/hitsend/packages/http"
	"github.com/spf13/cobra"
)

func newStatusCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status [code]",
		Short: "Show the canonical response for a status code",
		Long: `Show the canonical response for a status code, or list every code
in the catalog when no code is given.

Examples:
  hitsend status
  hitsend status 404
  hitsend status 418 -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				out := cmd.OutOrStdout()
				for _, code := range http.StatusCodes() {
					fmt.Fprintf(out, "%d %s\n", code, http.StatusText(code))
				}
				return nil
			}

			code, err := strconv.Atoi(args[0])
			if err != nil {
				return usageError(fmt.Errorf("invalid status code %q", args[0]))
			}
			resp, ok := http.Status(code)
			if !ok {
				return usageError(fmt.Errorf("status code %d is not in the catalog", code))
			}

			cfg, err := g.settings(cmd)
			if err != nil {
				return err
			}
			formatter, err := newFormatter(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return formatter.FormatResponse(resp)
		},
	}
}
