package cmd

import (
	"errors"

	"github.com/abdul-hamid-achik/hitsend/packages/http"
)

// Exit codes for hitsend CLI
const (
	// ExitSuccess indicates the transaction completed
	ExitSuccess = 0

	// ExitFailure indicates a reply did not meet an --expect check, or an
	// unclassified error
	ExitFailure = 1

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func usageError(err error) error {
	return &exitError{code: ExitUsageError, err: err}
}

func configError(err error) error {
	return &exitError{code: ExitConfigError, err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var te *http.TransportError
	if errors.As(err, &te) {
		return ExitNetworkError
	}
	return ExitFailure
}
