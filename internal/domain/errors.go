package domain

import "errors"

var (
	// ErrInvariant signals a business-rule violation: a duplicate username,
	// a duplicate collaboration grant, or a write the store did not apply.
	ErrInvariant = errors.New("invariant violation")

	// ErrNoteNotFound signals the referenced note does not exist.
	ErrNoteNotFound = errors.New("note not found")

	// ErrUserNotFound signals the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrForbidden signals the note exists but the caller has no access.
	ErrForbidden = errors.New("access to this resource is forbidden")

	// ErrInvalidCredentials is returned for both an unknown username and a
	// wrong password, so the response never reveals which half failed.
	ErrInvalidCredentials = errors.New("the credentials you provided are incorrect")

	// ErrInvalidRefreshToken signals the refresh token is unknown or revoked.
	ErrInvalidRefreshToken = errors.New("refresh token is not valid")

	// ErrCacheMiss signals the cache has no entry for the key. It is not an
	// error state for callers: it means fall through to the store.
	ErrCacheMiss = errors.New("cache miss")
)
