// internal/models/errors.go
package models

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrEventNotActive      = errors.New("event royalty layer is not active")
	ErrUnknownParty        = errors.New("unknown royalty party")
	ErrThresholdNotMet     = errors.New("distribution threshold not met")
	ErrAlreadyDistributed  = errors.New("royalties already distributed")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrOfferNotFound       = errors.New("offer not found")
	ErrOfferSoldOut        = errors.New("offer has no remaining availability")
	ErrNotListedForResale  = errors.New("ticket not listed for resale")
	ErrInvalidResalePrice  = errors.New("resale price must be greater than zero")
	ErrTradingLocked       = errors.New("trading is locked")
	ErrInvalidTransition   = errors.New("invalid state transition")
	ErrAlreadyExists       = errors.New("event already exists")
	ErrAlreadyInitialized  = errors.New("blockchain already initialized")
	ErrInvalidDistribution = errors.New("invalid royalty distribution")
	ErrAPIKeyInvalid       = errors.New("invalid api key")
	ErrRemoteCall          = errors.New("remote call failed")
)

// RemoteError carries the detail of a failed call to one of the upstream
// services. It matches errors.Is(err, ErrRemoteCall).
type RemoteError struct {
	Service    string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Service, e.Message, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s: status %d", e.Service, e.StatusCode)
}

func (e *RemoteError) Unwrap() error {
	return ErrRemoteCall
}
