package main

import (
	"github.com/go-faster/errors"

	"github.com/iota-uz/hcm-console/pkg/backend"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitBackend    = 4
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}

// resultErr maps a failed operation to its exit code. Missing credentials
// count as invalid input since nothing was sent.
func resultErr(res backend.OperationResult) error {
	if res.Success {
		return nil
	}
	switch res.Kind {
	case backend.KindValidation, backend.KindNotConnected:
		return withCode(exitValidation, errors.New(res.Error))
	default:
		return withCode(exitBackend, res.Err())
	}
}
