package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitsend/packages/cookie"
	"github.com/spf13/cobra"
)

func newCookieCmd() *cobra.Command {
	var (
		set    []string
		remove []string
		names  bool
	)

	cmd := &cobra.Command{
		Use:   "cookie [cookie-string]",
		Short: "Parse, edit and re-serialize a Cookie header value",
		Long: `Parse a Cookie header value, apply edits, and print it back in wire form.

Removals run before sets. Names keep their first-seen order; new names go last.

Examples:
  hitsend cookie "a=1; b=2"
  hitsend cookie "a=1; b=2" --set a=9 --set c=3 --remove b
  hitsend cookie "a=1; b=2" --names`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cookie.New()
			if len(args) == 1 {
				c = cookie.Parse(args[0])
			}

			for _, name := range remove {
				c.Remove(name)
			}
			for _, kv := range set {
				name, value, ok := strings.Cut(kv, "=")
				if !ok || name == "" {
					return usageError(fmt.Errorf("invalid --set %q (want name=value)", kv))
				}
				c.Set(name, value)
			}

			out := cmd.OutOrStdout()
			if names {
				for _, n := range c.Names() {
					fmt.Fprintln(out, n)
				}
				return nil
			}
			fmt.Fprintln(out, c.String())
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&set, "set", nil, "Set a cookie name=value (repeatable)")
	cmd.Flags().StringArrayVar(&remove, "remove", nil, "Remove a cookie by name (repeatable)")
	cmd.Flags().BoolVar(&names, "names", false, "Print only cookie names, one per line")
	return cmd
}
