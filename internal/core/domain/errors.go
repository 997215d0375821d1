package domain

import "errors"

// Common domain errors
var (
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")
)

// Listing errors
var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrListingNotActive = errors.New("listing is no longer active")
)

// Transport request errors
var (
	ErrRequestNotFound   = errors.New("transport request not found")
	ErrDuplicateRequest  = errors.New("a live request already exists for this listing")
	ErrInvalidTransition = errors.New("invalid request status transition")
)

// Evaluation errors
var (
	ErrRequestNotDelivered = errors.New("transport request is not delivered")
	ErrNotAParty           = errors.New("caller is not a party of this request")
	ErrWrongCounterparty   = errors.New("evaluated user is not the other party of this request")
	ErrDuplicateEvaluation = errors.New("request already evaluated by this user")
)

// Notification errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)
