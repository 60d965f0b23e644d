package http

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FilePostSender sends the Request's Params as multipart/form-data, one
// part per Param in order. The raw Body is not sent.
type FilePostSender struct {
	PostSender
}

// NewFilePostSender returns a Sender for req. An empty Request method means
// POST.
func NewFilePostSender(req *Request, opts ...Option) *FilePostSender {
	return &FilePostSender{
		PostSender: PostSender{transaction: newTransaction(req, http.MethodPost, opts)},
	}
}

func (s *FilePostSender) Send(ctx context.Context) (*Response, error) {
	if s.req.Body != nil {
		s.opts.logger.Warn().Str("url", s.req.URL).Msg("multipart sender ignores raw request body")
	}
	return s.send(ctx, s.multipartBody())
}

func (s *FilePostSender) multipartBody() *body {
	boundary := NewBoundary()
	params := s.req.Params
	return &body{
		contentType: "multipart/form-data; boundary=" + boundary,
		length:      -1,
		write: func(w io.Writer) error {
			return EncodeMultipart(w, boundary, params)
		},
	}
}

// NewBoundary returns a fresh multipart boundary token.
func NewBoundary() string {
	return "hitsend-" + uuid.NewString()
}

// EncodeMultipart writes params as a multipart/form-data body delimited by
// boundary. Field parts carry only a Content-Disposition header; file parts
// add a filename and Content-Type: application/octet-stream. Every
// ParamReader reader is closed before EncodeMultipart returns.
func EncodeMultipart(w io.Writer, boundary string, params []Param) error {
	defer func() {
		for _, p := range params {
			if p.Kind == ParamReader && p.Reader != nil {
				closeReader(p.Reader)
			}
		}
	}()

	mw := multipart.NewWriter(w)
	if err := mw.SetBoundary(boundary); err != nil {
		return err
	}
	for _, p := range params {
		if err := writePart(mw, p); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writePart(mw *multipart.Writer, p Param) error {
	switch p.Kind {
	case ParamFile:
		f, err := os.Open(p.Path)
		if err != nil {
			return &TransportError{Phase: PhaseWrite, Field: p.Name, Path: p.Path, Cause: err}
		}
		defer f.Close()

		part, err := mw.CreateFormFile(p.Name, filepath.Base(p.Path))
		if err != nil {
			return err
		}
		if _, err := copyChunks(part, f); err != nil {
			return &TransportError{Phase: PhaseWrite, Field: p.Name, Path: p.Path, Cause: err}
		}
		return nil

	case ParamReader:
		part, err := mw.CreateFormFile(p.Name, p.Filename)
		if err != nil {
			return err
		}
		if p.Reader == nil {
			return nil
		}
		if _, err := copyChunks(part, p.Reader); err != nil {
			return &TransportError{Phase: PhaseWrite, Field: p.Name, Path: p.Filename, Cause: err}
		}
		return nil

	default:
		part, err := mw.CreateFormField(p.Name)
		if err != nil {
			return err
		}
		_, err = io.WriteString(part, p.Value)
		return err
	}
}
