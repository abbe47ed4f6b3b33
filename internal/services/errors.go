package services

import "errors"

var (
	// ErrPostNotFound means the requested post does not exist.
	ErrPostNotFound = errors.New("post not found")

	// ErrUserNotFound means the token's account no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials means the password did not match the stored
	// hash for an existing account.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated means no bearer token was presented.
	ErrUnauthenticated = errors.New("access token required")

	// ErrContentRequired means a non-draft post was submitted without
	// content.
	ErrContentRequired = errors.New("content is required for published posts")

	// ErrPostIDRequired means an update was submitted without an id.
	ErrPostIDRequired = errors.New("post ID is required for updates")
)
