package cmd

import (
	"github.com/abdul-hamid-achik/hitsend/packages/http"
	"github.com/spf13/cobra"
)

func newGetCmd(g *globalFlags) *cobra.Command {
	f := &transactionFlags{}

	cmd := &cobra.Command{
		Use:   "get <url>",
		Short: "Send a request without a body",
		Long: `Send a request without a body and print the reply.

Examples:
  hitsend get https://api.example.com/users
  hitsend get https://api.example.com/users -H "Accept: application/json" -v
  hitsend get https://api.example.com/me -b "session=abc; theme=dark"
  hitsend get https://api.example.com/health --repeat 50 --rate 10`,
		Args: exactURLArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.runTransactions(cmd, g, args[0], nil,
				func(req *http.Request, opts ...http.Option) http.Sender {
					return http.NewGetSender(req, opts...)
				})
		},
	}
	f.register(cmd, "GET")
	return cmd
}
