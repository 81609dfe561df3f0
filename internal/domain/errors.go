package domain

import "errors"

var (
	// ErrItemNotFound is returned when an item does not exist or belongs to another user
	ErrItemNotFound = errors.New("item not found")

	// ErrUserNotFound is returned when a token refers to a user that no longer exists
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when registering an email that already has an account
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login fails
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a bearer token cannot be verified
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnauthorized is returned when a request needs a session and none is active
	ErrUnauthorized = errors.New("not authenticated")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidDate is returned when a calendar date cannot be parsed
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidTab is returned for an unknown dashboard tab
	ErrInvalidTab = errors.New("tab must be one of all, favorites, add")

	// ErrIncompleteForm is returned when submitting a form without a name or expiry date
	ErrIncompleteForm = errors.New("name and expiry date are required")

	// ErrEmptyUpload is returned when an OCR upload carries no image bytes
	ErrEmptyUpload = errors.New("no image uploaded")

	// ErrUploadTooLarge is returned when an OCR upload exceeds the configured limit
	ErrUploadTooLarge = errors.New("image exceeds upload limit")

	// ErrOCRFailure is returned when text recognition fails
	ErrOCRFailure = errors.New("text recognition failed")

	// ErrAPIFailure is returned when the inventory API cannot be reached
	ErrAPIFailure = errors.New("inventory API request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrStoreClosed is returned when mutating an item collection that has been torn down
	ErrStoreClosed = errors.New("item collection is closed")
)
