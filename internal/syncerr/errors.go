// Package syncerr defines the error taxonomy shared by the sync pipeline.
//
// ValidationError and RemoteAPIError are row-local: the orchestrator folds
// them into the run statistics and moves on. TransportError is run-fatal and
// surfaces at the invocation boundary as a 500 response.
package syncerr

import (
	"errors"
	"fmt"
)

// ValidationError reports a feed row that cannot be turned into a product.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// RemoteAPIError reports a non-2xx status or an error marker returned by the
// Hood API.
type RemoteAPIError struct {
	Function   string
	StatusCode int
	Message    string
}

func (e *RemoteAPIError) Error() string {
	if e.StatusCode != 0 && e.StatusCode != 200 {
		return fmt.Sprintf("hood api error: %s status=%d: %s", e.Function, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("hood api error: %s: %s", e.Function, e.Message)
}

// TransportError reports a failure that prevents the run from starting or
// continuing: feed fetch, feed parse or missing configuration.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsRemote(err error) bool {
	var r *RemoteAPIError
	return errors.As(err, &r)
}

func IsTransport(err error) bool {
	var t *TransportError
	return errors.As(err, &t)
}
