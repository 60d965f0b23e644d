package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/abdul-hamid-achik/hitsend/packages/assertions"
	"github.com/abdul-hamid-achik/hitsend/packages/http"
	"github.com/abdul-hamid-achik/hitsend/packages/stats"
)

// JSONResponse represents response details
type JSONResponse struct {
	StatusCode int               `json:"statusCode"`
	Status     string            `json:"status,omitempty"`
	MimeType   string            `json:"mimeType"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body"`
	Duration   float64           `json:"duration"`
}

// JSONError represents a failed transaction
type JSONError struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// JSONFormatter writes one JSON document per line
type JSONFormatter struct {
	enc *json.Encoder
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{enc: json.NewEncoder(w)}
}

func (f *JSONFormatter) FormatResponse(resp *http.Response) error {
	return f.enc.Encode(JSONResponse{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		MimeType:   resp.MimeType,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
		Duration:   float64(resp.Duration) / float64(time.Millisecond),
	})
}

func (f *JSONFormatter) FormatError(url string, err error) error {
	return f.enc.Encode(JSONError{URL: url, Error: err.Error()})
}

func (f *JSONFormatter) FormatSummary(s stats.Summary) error {
	return f.enc.Encode(struct {
		Summary stats.Summary `json:"summary"`
	}{s})
}

func (f *JSONFormatter) FormatAssertions(results []*assertions.Result) error {
	return f.enc.Encode(struct {
		Assertions []*assertions.Result `json:"assertions"`
	}{results})
}
