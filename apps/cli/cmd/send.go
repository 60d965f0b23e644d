package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitsend/packages/assertions"
	"github.com/abdul-hamid-achik/hitsend/packages/cookie"
	"github.com/abdul-hamid-achik/hitsend/packages/history"
	"github.com/abdul-hamid-achik/hitsend/packages/http"
	"github.com/abdul-hamid-achik/hitsend/packages/output"
	"github.com/abdul-hamid-achik/hitsend/packages/stats"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

// transactionFlags are shared by get, post, upload and curl.
type transactionFlags struct {
	method  string
	headers []string
	cookies string
	repeat  int
	rate    float64
	expects []string
	watch   bool

	// logged as warnings before the first send
	warnings []string
	// files whose changes trigger a resend with --watch, may hold placeholders
	watchPaths []string
}

func (f *transactionFlags) register(cmd *cobra.Command, defaultMethod string) {
	flags := cmd.Flags()
	flags.StringVarP(&f.method, "request", "X", defaultMethod, "HTTP method")
	flags.StringArrayVarP(&f.headers, "header", "H", nil, `Request header "Name: value" (repeatable)`)
	flags.StringVarP(&f.cookies, "cookie", "b", "", `Cookies "a=1; b=2", merged over config cookies`)
	f.registerRun(cmd)
}

func (f *transactionFlags) registerRun(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVarP(&f.repeat, "repeat", "n", 1, "Number of transactions to send, each on a fresh request")
	flags.Float64VarP(&f.rate, "rate", "r", 0, "Maximum transactions per second with --repeat (0 means unpaced)")
	flags.StringArrayVarP(&f.expects, "expect", "e", nil, `Check the reply, e.g. "status == 200" or "body.id exists" (repeatable)`)
	flags.BoolVarP(&f.watch, "watch", "w", false, "Send again whenever a body, upload, env or config file changes")
}

// parseHeader splits "Name: value". The name keeps its case.
func parseHeader(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("invalid header %q (want \"Name: value\")", s)
	}
	return name, strings.TrimSpace(value), nil
}

// newBaseRequest builds the method, URL, headers and cookies of a request,
// resolving placeholders in the URL and every value.
func (f *transactionFlags) newBaseRequest(resolve func(string) string, url, configCookies string) (*http.Request, error) {
	req := http.NewRequest(strings.ToUpper(f.method), resolve(url))
	for _, h := range f.headers {
		name, value, err := parseHeader(h)
		if err != nil {
			return nil, usageError(err)
		}
		req.SetHeader(name, resolve(value))
	}

	jar := cookie.Parse(resolve(configCookies)).Merge(cookie.Parse(resolve(f.cookies)))
	if jar.Len() > 0 {
		req.SetCookies(jar)
	}
	return req, nil
}

type senderFactory func(req *http.Request, opts ...http.Option) http.Sender

// requestBuilder adds a body or form parts to a base request.
type requestBuilder func(req *http.Request, resolve func(string) string) error

// runTransactions sends f.repeat transactions. Placeholders are resolved
// and build is called once per transaction, so every send gets a fresh
// Request and body. With --watch the batch is sent again after every change
// to a watched file until the command is interrupted.
func (f *transactionFlags) runTransactions(cmd *cobra.Command, g *globalFlags, url string,
	build requestBuilder, newSender senderFactory) error {
	if f.repeat < 1 {
		return usageError(fmt.Errorf("--repeat must be at least 1"))
	}
	if f.rate < 0 {
		return usageError(fmt.Errorf("--rate must not be negative"))
	}
	expectations, err := assertions.ParseAll(f.expects)
	if err != nil {
		return usageError(fmt.Errorf("--expect: %w", err))
	}

	cfg, err := g.settings(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	formatter, err := newFormatter(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	resolver, err := g.resolver(cfg, logger)
	if err != nil {
		return err
	}
	for _, w := range f.warnings {
		logger.Warn().Msg(w)
	}

	var watched []string
	if f.watch {
		for _, p := range append(f.watchPaths, g.configPath, g.envFile) {
			if p = resolver.Resolve(p); p != "" && p != "-" {
				watched = append(watched, p)
			}
		}
		if len(watched) == 0 {
			return usageError(fmt.Errorf("--watch needs a file to watch: --data-file, an @file form part, --env-file or --config"))
		}
	}

	ctx := cmd.Context()
	var store *history.Store
	if cfg.History != "" {
		if store, err = history.Open(ctx, cfg.History); err != nil {
			return configError(err)
		}
		defer store.Close()
	}

	b := &batch{
		flags:        f,
		url:          url,
		build:        build,
		newSender:    newSender,
		expectations: expectations,
		cookies:      cfg.Cookies,
		verbose:      cfg.GetVerbose(),
		resolve:      resolver.Resolve,
		formatter:    formatter,
		logger:       logger,
		store:        store,
		opts: []http.Option{
			http.WithLogger(logger),
			http.WithReadTimeout(cfg.ReadTimeout()),
			http.WithConnectTimeout(cfg.DialTimeout()),
			http.WithDefaultHeaders(resolver.ResolveAll(cfg.Headers)),
		},
	}

	err = b.run(ctx)
	if !f.watch {
		return err
	}

	out := cmd.OutOrStdout()
	if err != nil && ExitCode(err) == ExitUsageError {
		return err
	}
	if err != nil {
		logger.Error().Err(err).Msg("batch failed")
	}
	fmt.Fprintln(out, "\nWatching for changes... (press Ctrl+C to stop)")
	return watchFiles(ctx, watched, func(path string) {
		fmt.Fprintf(out, "\nFile changed: %s\n\n", path)
		if err := b.run(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("batch failed")
		}
		fmt.Fprintln(out, "\nWatching for changes... (press Ctrl+C to stop)")
	})
}

// batch is one run of --repeat transactions with everything resolved from
// flags and config.
type batch struct {
	flags        *transactionFlags
	url          string
	build        requestBuilder
	newSender    senderFactory
	expectations []*assertions.Assertion
	cookies      string
	verbose      bool
	resolve      func(string) string
	formatter    output.Formatter
	logger       zerolog.Logger
	store        *history.Store
	opts         []http.Option
}

func (b *batch) run(ctx context.Context) error {
	repeat := b.flags.repeat
	limiter := rate.NewLimiter(rate.Inf, 1)
	if b.flags.rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(b.flags.rate), 1)
	}

	recorder := stats.NewRecorder()
	failed, unmet := 0, 0
	var lastErr error

	for i := 0; i < repeat; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := b.flags.newBaseRequest(b.resolve, b.url, b.cookies)
		if err != nil {
			return err
		}
		if b.build != nil {
			if err := b.build(req, b.resolve); err != nil {
				return err
			}
		}

		resp, err := b.newSender(req, b.opts...).Send(ctx)
		logTransaction(ctx, b.store, b.logger, req, resp, err)
		if err != nil {
			if repeat == 1 {
				return err
			}
			failed++
			lastErr = err
			recorder.Record(0, 0, err)
			if ferr := b.formatter.FormatError(req.URL, err); ferr != nil {
				return ferr
			}
			continue
		}

		recorder.Record(resp.StatusCode, resp.Duration, nil)
		show := repeat == 1 || b.verbose

		var results []*assertions.Result
		passed := true
		if len(b.expectations) > 0 {
			results, passed = assertions.EvaluateAll(resp, b.expectations, assertions.WithBaseDir("."))
			if !passed {
				unmet++
			}
		}

		if show || !passed {
			if err := b.formatter.FormatResponse(resp); err != nil {
				return err
			}
			if len(results) > 0 {
				if err := b.formatter.FormatAssertions(results); err != nil {
					return err
				}
			}
		}
	}

	if repeat > 1 {
		if err := b.formatter.FormatSummary(recorder.Summary()); err != nil {
			return err
		}
	}
	if failed > 0 {
		return &exitError{
			code: ExitNetworkError,
			err:  fmt.Errorf("%d of %d transactions failed, last: %w", failed, repeat, lastErr),
		}
	}
	if unmet > 0 {
		return &exitError{
			code: ExitFailure,
			err:  fmt.Errorf("%d of %d transactions did not meet expectations", unmet, repeat),
		}
	}
	return nil
}

// logTransaction appends the outcome to store when history is enabled. A
// failed write is logged, never fatal.
func logTransaction(ctx context.Context, store *history.Store, logger zerolog.Logger,
	req *http.Request, resp *http.Response, sendErr error) {
	if store == nil {
		return
	}
	e := history.Entry{Method: req.Method, URL: req.URL}
	if sendErr != nil {
		e.Error = sendErr.Error()
	} else {
		e.Status = resp.StatusCode
		e.Duration = resp.Duration
		e.Bytes = len(resp.Body)
	}
	if err := store.Record(ctx, e); err != nil {
		logger.Warn().Err(err).Msg("history not recorded")
	}
}

func exactArgs(what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return usageError(fmt.Errorf("%s takes exactly one %s, got %d arguments", cmd.Name(), what, len(args)))
		}
		return nil
	}
}

var exactURLArg = exactArgs("URL")
