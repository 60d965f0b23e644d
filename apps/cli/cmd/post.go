package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/hitsend/packages/http"
	"github.com/spf13/cobra"
)

func newPostCmd(g *globalFlags) *cobra.Command {
	f := &transactionFlags{}
	var (
		data     string
		dataFile string
	)

	cmd := &cobra.Command{
		Use:   "post <url>",
		Short: "Send a raw request body",
		Long: `Send a raw request body and print the reply.

The body comes from --data, from a file with --data-file, or from stdin
with --data-file -. Inline data and stdin are sent with a Content-Length;
files are streamed. Placeholders are resolved in inline data only.

Examples:
  hitsend post https://api.example.com/users -d '{"name":"bob"}' -H "Content-Type: application/json"
  hitsend post https://api.example.com/import --data-file dump.ndjson
  cat event.json | hitsend post https://api.example.com/events --data-file -
  hitsend post https://api.example.com/users/1 -X PUT -d '{"id":"{{uuid()}}"}'`,
		Args: exactURLArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			if data != "" && dataFile != "" {
				return usageError(fmt.Errorf("--data and --data-file are mutually exclusive"))
			}

			if dataFile != "" && dataFile != "-" {
				f.watchPaths = append(f.watchPaths, dataFile)
			}

			var stdin []byte
			if dataFile == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				stdin = b
			}

			build := func(req *http.Request, resolve func(string) string) error {
				switch {
				case data != "":
					req.SetBodyString(resolve(data))
				case dataFile == "-":
					req.SetBodyBytes(stdin)
				case dataFile != "":
					file, err := os.Open(resolve(dataFile))
					if err != nil {
						return usageError(fmt.Errorf("open body file: %w", err))
					}
					// closed by the sender once copied
					req.SetBody(file)
				}
				return nil
			}

			return f.runTransactions(cmd, g, args[0], build,
				func(req *http.Request, opts ...http.Option) http.Sender {
					return http.NewPostSender(req, opts...)
				})
		},
	}
	f.register(cmd, "POST")
	cmd.Flags().StringVarP(&data, "data", "d", "", "Request body")
	cmd.Flags().StringVar(&dataFile, "data-file", "", "Read the request body from a file, or - for stdin")
	return cmd
}
