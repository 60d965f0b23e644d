package http

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// DefaultStatusCode is the code of a Response nobody has set.
	DefaultStatusCode = 200
	// DefaultMimeType is the MIME type of a Response nobody has set.
	DefaultMimeType = "text/html"
)

type Response struct {
	StatusCode int
	Status     string
	MimeType   string
	Headers    map[string]string
	Body       []byte
	Duration   time.Duration
}

// NewResponse returns a 200 text/html Response with an empty body.
func NewResponse() *Response {
	return &Response{
		StatusCode: DefaultStatusCode,
		MimeType:   DefaultMimeType,
		Headers:    make(map[string]string),
		Body:       []byte{},
	}
}

// Message sets the status code, a UTF-8 text body and the text/plain
// MIME type together.
func (r *Response) Message(code int, text string) *Response {
	r.StatusCode = code
	r.Body = []byte(text)
	r.MimeType = "text/plain"
	return r
}

// Clone returns a deep copy of r.
func (r *Response) Clone() *Response {
	c := *r
	c.Headers = make(map[string]string, len(r.Headers))
	for k, v := range r.Headers {
		c.Headers[k] = v
	}
	c.Body = append([]byte{}, r.Body...)
	return &c
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

func (r *Response) BodyJSON() (any, error) {
	var result any
	if err := json.Unmarshal(r.Body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// JSONPath evaluates a gjson path against the body.
func (r *Response) JSONPath(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

func (r *Response) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	ct := r.ContentType()
	return strings.Contains(ct, "application/json")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
