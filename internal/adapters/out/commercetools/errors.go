// internal/adapters/out/commercetools/errors.go
package commercetools

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAuth is matched by *AuthError via errors.Is.
var ErrAuth = errors.New("commercetools: auth failed")

// AuthError is a credential or token failure. It is fatal to the current operation
// and never retried.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return ErrAuth.Error()
	}
	return fmt.Sprintf("%s: %v", ErrAuth.Error(), e.Err)
}

func (e *AuthError) Unwrap() error        { return e.Err }
func (e *AuthError) Is(target error) bool { return target == ErrAuth }

// RemoteQueryError is a non-2xx response from the platform API.
type RemoteQueryError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *RemoteQueryError) Error() string {
	return fmt.Sprintf("commercetools: %s failed status=%d message=%s", e.Endpoint, e.Status, e.Message)
}

// IsNotFound reports a 404 from the platform.
func IsNotFound(err error) bool {
	var rq *RemoteQueryError
	return errors.As(err, &rq) && rq.Status == http.StatusNotFound
}

// IsConflict reports a 409 (stale resource version).
func IsConflict(err error) bool {
	var rq *RemoteQueryError
	return errors.As(err, &rq) && rq.Status == http.StatusConflict
}
