package bluesky

import (
	"errors"
	"fmt"
	"github.com/bluesky-social/indigo/xrpc"
	"net/http"
)

const (
	AccountDeactivatedError = "AccountDeactivated"
	ExpiredTokenError       = "ExpiredToken"
	InvalidRequestError     = "InvalidRequest" // Seen when profile is not found
)

// AuthError is returned when a session could not be created.
type AuthError struct {
	Identifier string
	Err        error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authenticate '%s': %v", e.Identifier, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ResolutionError is returned when an actor could not be resolved to a DID.
// NotFound is set when the service reported that the account does not exist,
// Malformed when the actor is neither a handle nor a DID. Any other
// resolution error is an upstream failure.
type ResolutionError struct {
	Actor     string
	NotFound  bool
	Malformed bool
	Err       error
}

func (e *ResolutionError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("resolve '%s': account not found: %v", e.Actor, e.Err)
	}
	if e.Malformed {
		return fmt.Sprintf("resolve '%s': malformed actor: %v", e.Actor, e.Err)
	}
	return fmt.Sprintf("resolve '%s': %v", e.Actor, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// FetchError is returned when the author feed request fails.
type FetchError struct {
	Actor string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch author feed of '%s': %v", e.Actor, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func isNotFound(err error) bool {
	var bskyErr *xrpc.Error
	if !errors.As(err, &bskyErr) {
		return false
	}
	if bskyErr.StatusCode == http.StatusNotFound {
		return true
	}
	if bskyErr.StatusCode == http.StatusBadRequest {
		var wrappedError *xrpc.XRPCError
		if errors.As(bskyErr.Wrapped, &wrappedError) {
			switch wrappedError.ErrStr {
			case AccountDeactivatedError, InvalidRequestError:
				return true
			}
		}
	}
	return false
}

func isExpiredToken(err error) bool {
	var bskyErr *xrpc.Error
	if !errors.As(err, &bskyErr) {
		return false
	}
	var wrappedError *xrpc.XRPCError
	return errors.As(bskyErr.Wrapped, &wrappedError) && wrappedError.ErrStr == ExpiredTokenError
}
