// internal/application/query/mall/errors.go
package mall

import "errors"

// ErrUnknownOptionKind is returned for a context picker that does not exist.
// - handlers may check with errors.Is(err, mall.ErrUnknownOptionKind)
var ErrUnknownOptionKind = errors.New("unknown_option_kind")
