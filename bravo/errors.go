package bravo

import (
	"errors"
	"fmt"
)

var (
	ErrEnvironmentUnset   = errors.New("bravo: environment not set")
	ErrCertificateMissing = errors.New("bravo: certificate or private key file not found")
	ErrAuthFailed         = errors.New("bravo: authentication rejected by WSAA")
	ErrEmptyBatch         = errors.New("bravo: batch has no invoices")
	ErrAlreadySubmitted   = errors.New("bravo: batch was already submitted")
)

// InvalidAttributeError reports a business-rule violation detected while
// building an invoice or admitting it into a batch. It is never retried.
type InvalidAttributeError struct {
	Attribute string
	Reason    string
}

func (e *InvalidAttributeError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Attribute, e.Reason)
}

func InvalidAttribute(attribute, format string, args ...interface{}) error {
	return &InvalidAttributeError{Attribute: attribute, Reason: fmt.Sprintf(format, args...)}
}

// ServiceError carries the top-level error block of a WSFE response. When
// it is returned no invoice in the batch was evaluated, so resubmitting
// the whole batch is safe once the cause is fixed.
type ServiceError struct {
	Code    int
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("WSFE error %d: %s", e.Code, e.Message)
}
