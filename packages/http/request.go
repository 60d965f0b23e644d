package http

import (
	"bytes"
	"io"
	"strings"

	"github.com/abdul-hamid-achik/hitsend/packages/cookie"
)

// ParamKind tells a multipart encoder how to treat a parameter.
type ParamKind int

const (
	// ParamField is a literal form field.
	ParamField ParamKind = iota
	// ParamFile is a file read from Path.
	ParamFile
	// ParamReader is a file whose content comes from Reader.
	ParamReader
)

func (k ParamKind) String() string {
	switch k {
	case ParamField:
		return "field"
	case ParamFile:
		return "file"
	case ParamReader:
		return "reader"
	default:
		return "unknown"
	}
}

// Param is one body parameter. The kind is always explicit: a field value
// that names an existing file is still sent as text.
type Param struct {
	Kind     ParamKind
	Name     string
	Value    string    // ParamField
	Path     string    // ParamFile
	Filename string    // ParamReader; ParamFile defaults to the base name of Path
	Reader   io.Reader // ParamReader
}

// Field returns a literal form field parameter.
func Field(name, value string) Param {
	return Param{Kind: ParamField, Name: name, Value: value}
}

// File returns a parameter whose content is read from path at send time.
func File(name, path string) Param {
	return Param{Kind: ParamFile, Name: name, Path: path}
}

// FileReader returns a file parameter backed by an open reader. The reader
// is closed after it is copied if it implements io.Closer.
func FileReader(name, filename string, r io.Reader) Param {
	return Param{Kind: ParamReader, Name: name, Filename: filename, Reader: r}
}

// Request describes one transaction. It is consumed by a single Sender;
// the Body reader is drained and closed by the send.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Params  []Param
	Cookies *cookie.Cookie
	Body    io.Reader
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method:  method,
		URL:     requestURL,
		Headers: make(map[string]string),
	}
}

func (r *Request) SetHeader(key, value string) *Request {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

// SetBody sets the raw body. In-memory readers (*bytes.Buffer,
// *bytes.Reader, *strings.Reader) get a computed Content-Length.
func (r *Request) SetBody(body io.Reader) *Request {
	r.Body = body
	return r
}

func (r *Request) SetBodyBytes(body []byte) *Request {
	return r.SetBody(bytes.NewReader(body))
}

func (r *Request) SetBodyString(body string) *Request {
	return r.SetBody(strings.NewReader(body))
}

func (r *Request) SetCookies(c *cookie.Cookie) *Request {
	r.Cookies = c
	return r
}

func (r *Request) AddParam(p Param) *Request {
	r.Params = append(r.Params, p)
	return r
}

func (r *Request) AddField(name, value string) *Request {
	return r.AddParam(Field(name, value))
}

func (r *Request) AddFile(name, path string) *Request {
	return r.AddParam(File(name, path))
}

func (r *Request) AddFileReader(name, filename string, rd io.Reader) *Request {
	return r.AddParam(FileReader(name, filename, rd))
}

// Header looks up a header by case-insensitive name. The second result
// is the key exactly as the caller supplied it.
func (r *Request) Header(key string) (value, actualKey string, ok bool) {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v, k, true
		}
	}
	return "", "", false
}
