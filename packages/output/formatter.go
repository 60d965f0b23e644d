package output

import (
	"fmt"
	"io"

	"github.com/abdul-hamid-achik/hitsend/packages/assertions"
	"github.com/abdul-hamid-achik/hitsend/packages/http"
	"github.com/abdul-hamid-achik/hitsend/packages/stats"
)

// Formatter renders transaction results.
type Formatter interface {
	FormatResponse(resp *http.Response) error
	FormatError(url string, err error) error
	FormatSummary(s stats.Summary) error
	FormatAssertions(results []*assertions.Result) error
}

// New returns the formatter registered under name.
func New(name string, w io.Writer, verbose, noColor bool) (Formatter, error) {
	switch name {
	case "", "console":
		return NewConsoleFormatter(WithWriter(w), WithVerbose(verbose), WithNoColor(noColor)), nil
	case "json":
		return NewJSONFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want console or json)", name)
	}
}
