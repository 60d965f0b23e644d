package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/hitsend/packages/curl"
	"github.com/abdul-hamid-achik/hitsend/packages/http"
	"github.com/spf13/cobra"
)

func newCurlCmd(g *globalFlags) *cobra.Command {
	f := &transactionFlags{}

	cmd := &cobra.Command{
		Use:   "curl <command>",
		Short: "Send the transaction described by a curl command line",
		Long: `Send the transaction described by a curl command line.

Pass the whole command as one quoted argument, or - to read it from stdin
(lines ending in a backslash are joined). -X, -H, -A, -e, -b, -u, -d,
--data-*, -F, -G, -I and --url are understood; other flags are ignored
with a warning.

Examples:
  hitsend curl "curl -X POST https://api.example.com/users -d '{\"name\":\"bob\"}'"
  hitsend curl "curl -F file=@report.pdf https://api.example.com/docs"
  pbpaste | hitsend curl -`,
		Args: exactArgs("curl command"),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			if src == "-" {
				joined, err := curl.JoinLines(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				src = joined
			}

			c, err := curl.Parse(src)
			if err != nil {
				return usageError(fmt.Errorf("parse curl command: %w", err))
			}

			f.method = c.EffectiveMethod()
			f.headers = c.AllHeaders()
			f.cookies = c.Cookies
			f.watchPaths = filePaths(c.Forms)
			if c.DataFile != "" {
				f.watchPaths = append(f.watchPaths, c.DataFile)
			}
			if len(c.Ignored) > 0 {
				f.warnings = append(f.warnings, "ignoring curl arguments: "+strings.Join(c.Ignored, " "))
			}

			var build requestBuilder
			var factory senderFactory
			switch c.Kind() {
			case curl.KindFilePost:
				build = func(req *http.Request, resolve func(string) string) error {
					addParams(req, c.Forms, resolve)
					return nil
				}
				factory = func(req *http.Request, opts ...http.Option) http.Sender {
					return http.NewFilePostSender(req, opts...)
				}
			case curl.KindPost:
				build = func(req *http.Request, resolve func(string) string) error {
					if c.DataFile == "" {
						req.SetBodyString(resolve(c.Body()))
						return nil
					}
					file, err := os.Open(resolve(c.DataFile))
					if err != nil {
						return usageError(fmt.Errorf("open body file: %w", err))
					}
					req.SetBody(file)
					return nil
				}
				factory = func(req *http.Request, opts ...http.Option) http.Sender {
					return http.NewPostSender(req, opts...)
				}
			default:
				factory = func(req *http.Request, opts ...http.Option) http.Sender {
					return http.NewGetSender(req, opts...)
				}
			}

			return f.runTransactions(cmd, g, c.EffectiveURL(), build, factory)
		},
	}
	f.registerRun(cmd)
	return cmd
}
