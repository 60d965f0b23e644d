package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/hitsend/packages/assertions"
	"github.com/abdul-hamid-achik/hitsend/packages/http"
	"github.com/abdul-hamid-achik/hitsend/packages/stats"
	"github.com/fatih/color"
)

// formatValue formats a value for display, truncating or summarizing large values
func formatValue(v any, maxLen int) string {
	switch val := v.(type) {
	case []any:
		return fmt.Sprintf("[array with %d items]", len(val))
	case map[string]any:
		return fmt.Sprintf("{object with %d keys}", len(val))
	case map[string]string:
		return fmt.Sprintf("{map with %d entries}", len(val))
	}
	str := fmt.Sprintf("%v", v)
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func statusColor(code int) *color.Color {
	switch {
	case code >= 500:
		return color.New(color.FgRed, color.Bold)
	case code >= 400:
		return color.New(color.FgYellow, color.Bold)
	case code >= 300:
		return color.New(color.FgCyan, color.Bold)
	default:
		return color.New(color.FgGreen, color.Bold)
	}
}

// FormatResponse prints the status line, headers when verbose, and the body.
func (f *ConsoleFormatter) FormatResponse(resp *http.Response) error {
	cyan := color.New(color.FgCyan).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	status := resp.Status
	if status == "" {
		status = strings.TrimSpace(fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}
	fmt.Fprintf(f.writer, "%s %s\n", statusColor(resp.StatusCode).Sprint(status),
		cyan(fmt.Sprintf("(%dms)", resp.DurationMs())))

	if f.verbose {
		keys := make([]string, 0, len(resp.Headers))
		for k := range resp.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(f.writer, "%s %s\n", faint(k+":"), resp.Headers[k])
		}
		fmt.Fprintf(f.writer, "%s %s\n", faint("MIME:"), resp.MimeType)
	}

	if len(resp.Body) > 0 {
		fmt.Fprintf(f.writer, "\n%s", resp.Body)
		if resp.Body[len(resp.Body)-1] != '\n' {
			fmt.Fprintln(f.writer)
		}
	}
	return nil
}

func (f *ConsoleFormatter) FormatError(url string, err error) error {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s %s\n", red("x"), url, red(fmt.Sprintf("(%v)", err)))
	return nil
}

func (f *ConsoleFormatter) FormatSummary(s stats.Summary) error {
	bold := color.New(color.Bold).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Summary"))
	fmt.Fprintf(f.writer, "  Requests: %d", s.Total)
	if s.Errors > 0 {
		fmt.Fprintf(f.writer, ", %s", red(fmt.Sprintf("%d failed", s.Errors)))
	}
	fmt.Fprintln(f.writer)

	codes := make([]int, 0, len(s.Statuses))
	for code := range s.Statuses {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Fprintf(f.writer, "  %s x%d\n", statusColor(code).Sprint(code), s.Statuses[code])
	}

	fmt.Fprintf(f.writer, "  Latency: min %s, mean %s, p50 %s, p95 %s, p99 %s, max %s\n",
		s.Min, s.Mean, s.P50, s.P95, s.P99, s.Max)
	return nil
}

// FormatAssertions prints one line per expectation and the details of
// each failure.
func (f *ConsoleFormatter) FormatAssertions(results []*assertions.Result) error {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, a := range results {
		if a.Passed {
			fmt.Fprintf(f.writer, "  %s %s %s\n", green("✓"), a.Subject, a.Operator)
			continue
		}
		fmt.Fprintf(f.writer, "  %s %s %s\n", red("✗"), a.Subject, a.Operator)
		fmt.Fprintf(f.writer, "      Expected: %s\n", formatValue(a.Expected, 100))
		fmt.Fprintf(f.writer, "      Actual:   %s\n", formatValue(a.Actual, 100))
		if a.Message != "" {
			fmt.Fprintf(f.writer, "      %s\n", a.Message)
		}
	}
	return nil
}
