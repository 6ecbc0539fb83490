// Package identity wraps the external AT-Protocol identity gateway. The
// backend never validates credentials itself; it hands the caller's
// assertion to the gateway and gets back a stable DID plus profile data.
package identity

import (
	"context"
	"errors"
)

// Identity is the resolved result of a successful login assertion.
type Identity struct {
	DID         string `json:"did"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
}

// ErrUnavailable is returned when the gateway cannot be reached or rejects
// the exchange. It is surfaced to the caller unchanged.
var ErrUnavailable = errors.New("identity provider unavailable")

// Provider exchanges an opaque login assertion for a resolved identity.
type Provider interface {
	Resolve(ctx context.Context, assertion string) (*Identity, error)
}
