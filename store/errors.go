package store

import (
	"errors"
	"fmt"
)

var (
	// ErrPaidAppsNotSupported is returned when a purchase is attempted for
	// an item with a non-zero price. No request is made.
	ErrPaidAppsNotSupported = errors.New("purchasing paid apps is not supported")

	// ErrTemporarilyUnavailable corresponds to failureType 2059. The
	// purchase flow retries it once with the fallback pricing parameters;
	// everywhere else it is terminal.
	ErrTemporarilyUnavailable = errors.New("item is temporarily unavailable")

	// ErrSessionExpired corresponds to failureTypes 2034 and 2042 or a
	// password-changed message. The caller must re-authenticate the account.
	ErrSessionExpired = errors.New("password token is expired")

	// ErrSubscriptionRequired signals a paid-subscription precondition
	// unmet by this account.
	ErrSubscriptionRequired = errors.New("subscription required")
)

// TransportError wraps a connection or timeout failure. The request never
// produced a decodable response, so the caller's jar is left untouched.
type TransportError struct {
	Host string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Host, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports a response body that is not well-formed
// plist. The raw body is kept for diagnosis.
type MalformedResponseError struct {
	Body []byte
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed store response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// StoreError is a decoded store-level failure: the failureType code plus the
// best available customer-facing message. It may wrap one of the sentinel
// errors above when the code has a known classification.
type StoreError struct {
	Code    string
	Message string
	err     error
}

func (e *StoreError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with failureType %s", e.Code)
}

func (e *StoreError) Unwrap() error {
	return e.err
}

// TermsError is a terminal failure carrying the URL the user must visit to
// accept the Terms & Conditions before the operation can succeed.
type TermsError struct {
	Code string
	URL  string
}

func (e *TermsError) Error() string {
	return fmt.Sprintf("you must accept the Terms & Conditions: %s", e.URL)
}
