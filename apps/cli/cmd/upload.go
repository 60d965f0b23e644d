package cmd

import (
	"github.com/abdul-hamid-achik/hitsend/packages/curl"
	"github.com/abdul-hamid-achik/hitsend/packages/http"
	"github.com/spf13/cobra"
)

func newUploadCmd(g *globalFlags) *cobra.Command {
	f := &transactionFlags{}
	var forms []string

	cmd := &cobra.Command{
		Use:   "upload <url>",
		Short: "Send multipart/form-data fields and files",
		Long: `Send a multipart/form-data body, one part per -F in the order given.

A value starting with @ names a file to upload; anything else is sent as a
text field, even if it happens to be a path on disk.

Examples:
  hitsend upload https://api.example.com/avatars -F user=bob -F image=@./me.png
  hitsend upload https://api.example.com/docs -F title="Q3 report" -F file=@report.pdf -v`,
		Args: exactURLArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make([]http.Param, 0, len(forms))
			for _, s := range forms {
				p, err := curl.ParseFormParam(s)
				if err != nil {
					return usageError(err)
				}
				params = append(params, p)
			}
			f.watchPaths = append(f.watchPaths, filePaths(params)...)

			build := func(req *http.Request, resolve func(string) string) error {
				addParams(req, params, resolve)
				return nil
			}

			return f.runTransactions(cmd, g, args[0], build,
				func(req *http.Request, opts ...http.Option) http.Sender {
					return http.NewFilePostSender(req, opts...)
				})
		},
	}
	f.register(cmd, "POST")
	cmd.Flags().StringArrayVarP(&forms, "form", "F", nil, "Form part name=value or name=@path (repeatable)")
	return cmd
}

// addParams adds params to req with placeholders resolved in field values
// and file paths.
func addParams(req *http.Request, params []http.Param, resolve func(string) string) {
	for _, p := range params {
		switch p.Kind {
		case http.ParamField:
			p.Value = resolve(p.Value)
		case http.ParamFile:
			p.Path = resolve(p.Path)
		}
		req.AddParam(p)
	}
}

func filePaths(params []http.Param) []string {
	var paths []string
	for _, p := range params {
		if p.Kind == http.ParamFile {
			paths = append(paths, p.Path)
		}
	}
	return paths
}
