package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
)

// PostSender streams the Request's raw Body. Params are not encoded; use
// FilePostSender for multipart bodies.
type PostSender struct {
	transaction
}

// NewPostSender returns a Sender for req. An empty Request method means POST.
func NewPostSender(req *Request, opts ...Option) *PostSender {
	return &PostSender{transaction: newTransaction(req, http.MethodPost, opts)}
}

func (s *PostSender) Send(ctx context.Context) (*Response, error) {
	if len(s.req.Params) > 0 {
		s.opts.logger.Warn().
			Str("url", s.req.URL).
			Int("params", len(s.req.Params)).
			Msg("post sender ignores request params")
	}
	return s.send(ctx, s.rawBody())
}

// rawBody returns nil when the Request has no Body. net/http still writes
// "Content-Length: 0" for a bodiless POST, PUT or PATCH; there is no way to
// omit it through http.Transport.
func (s *PostSender) rawBody() *body {
	in := s.req.Body
	if in == nil {
		return nil
	}
	return &body{
		length: inMemoryLength(in),
		write: func(w io.Writer) error {
			defer closeReader(in)
			_, err := copyChunks(w, in)
			return err
		},
	}
}

// inMemoryLength returns the unread length of buffered readers, or -1.
func inMemoryLength(r io.Reader) int64 {
	switch v := r.(type) {
	case *bytes.Buffer:
		return int64(v.Len())
	case *bytes.Reader:
		return int64(v.Len())
	case *strings.Reader:
		return int64(v.Len())
	default:
		return -1
	}
}
