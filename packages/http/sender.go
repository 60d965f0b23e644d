package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultConnectTimeout bounds dialing the server.
	DefaultConnectTimeout = 30 * time.Second
	// DefaultReadTimeout bounds the wait for the reply headers.
	DefaultReadTimeout = 30 * time.Second

	chunkSize = 8192
)

// Sender runs one transaction for the Request it was built with.
type Sender interface {
	Send(ctx context.Context) (*Response, error)
}

// Option configures a Sender.
type Option func(*options)

type options struct {
	connectTimeout time.Duration
	readTimeout    time.Duration
	httpClient     *http.Client
	defaultHeaders map[string]string
	logger         zerolog.Logger
}

func defaultOptions() options {
	return options{
		connectTimeout: DefaultConnectTimeout,
		readTimeout:    DefaultReadTimeout,
		defaultHeaders: make(map[string]string),
		logger:         zerolog.Nop(),
	}
}

// WithConnectTimeout bounds dialing the server.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) {
		o.connectTimeout = d
	}
}

// WithReadTimeout bounds the wait for the reply headers.
func WithReadTimeout(d time.Duration) Option {
	return func(o *options) {
		o.readTimeout = d
	}
}

// WithHTTPClient replaces the per-transaction client. Connect and read
// timeouts are then up to the supplied client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithDefaultHeader sets a header sent unless the Request supplies the same
// name.
func WithDefaultHeader(key, value string) Option {
	return func(o *options) {
		o.defaultHeaders[key] = value
	}
}

// WithDefaultHeaders sets multiple default headers
func WithDefaultHeaders(headers map[string]string) Option {
	return func(o *options) {
		for k, v := range headers {
			o.defaultHeaders[k] = v
		}
	}
}

// WithLogger sets the transaction logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// body is what a Sender variant writes after the headers. A nil *body
// means the request has no output stream.
type body struct {
	contentType string
	length      int64 // -1 when unknown
	write       func(w io.Writer) error
}

// transaction is the skeleton shared by every Sender variant.
type transaction struct {
	req           *Request
	defaultMethod string
	opts          options
}

func newTransaction(req *Request, method string, opts []Option) transaction {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return transaction{req: req, defaultMethod: method, opts: o}
}

func (t *transaction) method() string {
	if t.req.Method != "" {
		return t.req.Method
	}
	return t.defaultMethod
}

func (t *transaction) send(ctx context.Context, b *body) (*Response, error) {
	method := t.method()
	log := t.opts.logger.With().Str("method", method).Str("url", t.req.URL).Logger()

	httpReq, err := t.openConnection(ctx, method)
	if err != nil {
		return nil, t.fail(log, PhaseConnect, err)
	}

	declared, err := t.setupRequestHeader(httpReq)
	if err != nil {
		return nil, t.fail(log, PhaseConnect, err)
	}

	var (
		pr        *io.PipeReader
		writeDone <-chan error
	)
	if b != nil {
		pr, writeDone, err = t.attachBody(httpReq, b, declared)
		if err != nil {
			return nil, t.fail(log, PhaseWrite, err)
		}
	}
	// finishWrite stops the body writer and waits for it, so the input is
	// closed before Send returns on every path.
	finishWrite := func() error {
		if writeDone == nil {
			return nil
		}
		// Unblocks a writer the server stopped reading from.
		pr.Close()
		werr := <-writeDone
		writeDone = nil
		if werr != nil && !errors.Is(werr, io.ErrClosedPipe) {
			return werr
		}
		return nil
	}

	client, release := t.client()
	defer release()

	log.Debug().Int64("content_length", httpReq.ContentLength).Msg("sending request")

	start := time.Now()
	httpResp, err := client.Do(httpReq)
	if err != nil {
		if werr := finishWrite(); werr != nil {
			return nil, t.fail(log, PhaseWrite, werr)
		}
		return nil, t.fail(log, PhaseConnect, err)
	}

	resp, err := t.createResponse(httpResp)
	if err != nil {
		_ = finishWrite()
		return nil, t.fail(log, PhaseRead, err)
	}
	resp.Duration = time.Since(start)

	if werr := finishWrite(); werr != nil {
		return nil, t.fail(log, PhaseWrite, werr)
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(resp.Body)).
		Dur("duration", resp.Duration).
		Msg("received response")

	return resp, nil
}

func (t *transaction) openConnection(ctx context.Context, method string) (*http.Request, error) {
	if err := ValidateURL(t.req.URL); err != nil {
		return nil, err
	}
	return http.NewRequestWithContext(ctx, method, t.req.URL, nil)
}

// setupRequestHeader copies headers without canonicalizing their names and
// returns the caller's declared Content-Length, or -1.
func (t *transaction) setupRequestHeader(httpReq *http.Request) (int64, error) {
	declared := int64(-1)

	apply := func(key, value string) error {
		switch {
		case strings.EqualFold(key, "Host"):
			httpReq.Host = value
		case strings.EqualFold(key, "Content-Length"):
			n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid Content-Length header %q", value)
			}
			declared = n
		default:
			setRawHeader(httpReq.Header, key, value)
		}
		return nil
	}

	for k, v := range t.opts.defaultHeaders {
		if err := apply(k, v); err != nil {
			return -1, err
		}
	}
	for k, v := range t.req.Headers {
		if err := apply(k, v); err != nil {
			return -1, err
		}
	}

	if t.req.Cookies != nil && t.req.Cookies.Len() > 0 {
		setRawHeader(httpReq.Header, "Cookie", t.req.Cookies.String())
	}

	return declared, nil
}

// attachBody enables the output stream. The body is produced by a writer
// goroutine feeding a pipe; its result arrives on the returned channel.
func (t *transaction) attachBody(httpReq *http.Request, b *body, declared int64) (*io.PipeReader, <-chan error, error) {
	if b.contentType != "" {
		setRawHeader(httpReq.Header, "Content-Type", b.contentType)
	}

	length := b.length
	if declared >= 0 {
		length = declared
	}

	if length == 0 {
		// net/http treats a zero ContentLength with a body as unknown, so
		// the body is drained here and must turn out empty.
		if err := b.write(emptyWriter{}); err != nil {
			return nil, nil, err
		}
		httpReq.Body = http.NoBody
		httpReq.ContentLength = 0
		return nil, nil, nil
	}

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		err := b.write(pw)
		done <- err
		pw.CloseWithError(err)
	}()

	httpReq.Body = pr
	httpReq.ContentLength = length
	return pr, done, nil
}

// errBodyTooLong reports body bytes beyond a declared Content-Length of 0.
var errBodyTooLong = errors.New("request body is not empty but Content-Length is 0")

// emptyWriter accepts only empty writes.
type emptyWriter struct{}

func (emptyWriter) Write(p []byte) (int, error) {
	if len(p) > 0 {
		return 0, errBodyTooLong
	}
	return 0, nil
}

func (t *transaction) client() (*http.Client, func()) {
	if t.opts.httpClient != nil {
		return t.opts.httpClient, func() {}
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: t.opts.connectTimeout,
		}).DialContext,
		ResponseHeaderTimeout: t.opts.readTimeout,
		DisableKeepAlives:     true,
		// No implicit Accept-Encoding, and replies keep Content-Encoding.
		DisableCompression: true,
	}
	return &http.Client{Transport: transport}, transport.CloseIdleConnections
}

// createResponse reads the whole reply. Repeated header names keep their
// last value. The body is closed on every path.
func (t *transaction) createResponse(httpResp *http.Response) (*Response, error) {
	defer httpResp.Body.Close()

	resp := NewResponse()
	resp.StatusCode = httpResp.StatusCode
	resp.Status = httpResp.Status

	for k, vs := range httpResp.Header {
		if len(vs) > 0 {
			resp.Headers[k] = vs[len(vs)-1]
		}
	}
	if ct := resp.Headers["Content-Type"]; ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			resp.MimeType = mediaType
		}
	}

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	if data != nil {
		resp.Body = data
	}
	return resp, nil
}

func (t *transaction) fail(log zerolog.Logger, phase Phase, err error) error {
	var te *TransportError
	if errors.As(err, &te) {
		te.URL = t.req.URL
		if te.Phase == "" {
			te.Phase = phase
		}
	} else {
		te = &TransportError{URL: t.req.URL, Phase: phase, Cause: err}
	}
	log.Error().Err(te.Cause).Str("phase", string(phase)).Msg("request failed")
	return te
}

// setRawHeader replaces any header matching key case-insensitively and
// stores value under key exactly as given.
func setRawHeader(h http.Header, key, value string) {
	for k := range h {
		if strings.EqualFold(k, key) {
			delete(h, k)
		}
	}
	h[key] = []string{value}
}

// copyChunks copies r to w through a fixed 8192-byte buffer.
func copyChunks(w io.Writer, r io.Reader) (int64, error) {
	buf := make([]byte, chunkSize)
	// Hide WriterTo/ReaderFrom so the buffer is always used.
	return io.CopyBuffer(struct{ io.Writer }{w}, struct{ io.Reader }{r}, buf)
}

func closeReader(r io.Reader) {
	if c, ok := r.(io.Closer); ok {
		_ = c.Close()
	}
}
