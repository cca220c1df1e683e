package dispatch

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	TemplateNotFoundErr = errors.New("the template was not found")
	ContactNotFoundErr  = errors.New("the contact was not found")
	VendorNotFoundErr   = errors.New("the vendor was not found")
)

// IsNotFound reports whether err means a recipient or template is absent
// from the underlying store.
func IsNotFound(err error) bool {
	switch errors.Cause(err) {
	case TemplateNotFoundErr, ContactNotFoundErr, VendorNotFoundErr:
		return true
	}

	return false
}

// ValidationError marks bad input caught before any delivery attempt. It is
// surfaced to the caller and never written to the communication log.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}

// DeliveryError marks a provider-side failure. Delivery services record it
// in the communication log instead of propagating it to callers.
type DeliveryError struct {
	Provider string
	Reason   string
}

func (e *DeliveryError) Error() string {
	if e.Provider == "" {
		return e.Reason
	}

	return fmt.Sprintf("%s: %s", e.Provider, e.Reason)
}

func NewDeliveryError(provider, format string, args ...interface{}) error {
	return &DeliveryError{Provider: provider, Reason: fmt.Sprintf(format, args...)}
}

func IsDelivery(err error) bool {
	_, ok := errors.Cause(err).(*DeliveryError)
	return ok
}
