package checkout

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
)

// Sentinel errors for checkout preconditions.
var (
	// ErrCartEmpty is returned when checkout is requested on an empty cart.
	ErrCartEmpty = errors.New("cart is empty, nothing to check out")
	// ErrAttemptInProgress is returned when a checkout submission arrives
	// while another attempt is still running. Prevents duplicate payment
	// intents and double order submission from repeated clicks.
	ErrAttemptInProgress = errors.New("a checkout attempt is already in progress")
)

// ValidationError reports which buyer info fields are missing. The attempt
// never starts; no network call is made.
type ValidationError struct {
	Missing []Field
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("missing required fields: %s", strings.Join(names, ", "))
}

// UnknownFieldError reports an update to a field the form does not have.
type UnknownFieldError struct {
	Field Field
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown form field %q", e.Field)
}

// InvalidCardDetailsError terminates an attempt during tokenization. The
// backend was never contacted.
type InvalidCardDetailsError struct {
	Cause error
}

func (e *InvalidCardDetailsError) Error() string {
	return fmt.Sprintf("invalid card details: %v", e.Cause)
}

func (e *InvalidCardDetailsError) Unwrap() error { return e.Cause }

// PaymentIntentUnavailableError terminates an attempt when the backend could
// not issue a payment intent. No funds moved.
type PaymentIntentUnavailableError struct {
	Cause error
}

func (e *PaymentIntentUnavailableError) Error() string {
	return fmt.Sprintf("payment intent unavailable: %v", e.Cause)
}

func (e *PaymentIntentUnavailableError) Unwrap() error { return e.Cause }

// PaymentDeclinedError terminates an attempt when the processor rejected the
// confirmation. Message carries the processor's own wording.
type PaymentDeclinedError struct {
	Message string
}

func (e *PaymentDeclinedError) Error() string {
	return fmt.Sprintf("payment declined: %s", e.Message)
}

// OrderSubmissionError terminates an attempt after payment already
// succeeded: the charge went through but the order record was not created.
// This must never be retried as a fresh payment.
type OrderSubmissionError struct {
	AttemptID string
	Cause     error
}

func (e *OrderSubmissionError) Error() string {
	return fmt.Sprintf("order submission failed after successful payment (attempt %s): %v", e.AttemptID, e.Cause)
}

func (e *OrderSubmissionError) Unwrap() error { return e.Cause }
