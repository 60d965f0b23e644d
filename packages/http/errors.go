package http

import (
	"fmt"
	neturl "net/url"
)

// Phase names the step of a transaction that failed.
type Phase string

const (
	PhaseConnect Phase = "connect"
	PhaseWrite   Phase = "write"
	PhaseRead    Phase = "read"
)

// TransportError is the only error a Sender returns. Field and Path are
// set when a multipart parameter could not be read.
type TransportError struct {
	URL   string
	Phase Phase
	Field string
	Path  string
	Cause error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Phase, e.URL)
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
		if e.Path != "" {
			msg += fmt.Sprintf(" (%s)", e.Path)
		}
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ValidateURL checks that a URL is well-formed and uses an allowed scheme
func ValidateURL(rawURL string) error {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https are allowed)", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	return nil
}
