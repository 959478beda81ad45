// Package payment models the third-party payment processor capability: raw
// card details go in, an opaque single-use payment method reference comes
// out, and a previously issued payment intent can be confirmed against that
// reference. The core never handles card data beyond passing it through.
package payment

import "fmt"

// CardDetails is the raw card input collected by the payment form. It exists
// only for the duration of a tokenization call.
type CardDetails struct {
	Number   string
	ExpMonth int
	ExpYear  int
	CVC      string
}

// Complete reports whether every card field has been provided. Incomplete
// input is rejected locally before any processor call.
func (c CardDetails) Complete() bool {
	return c.Number != "" && c.ExpMonth != 0 && c.ExpYear != 0 && c.CVC != ""
}

// MethodRef is an opaque payment method reference issued by the processor in
// exchange for card details.
type MethodRef string

// DeclineError indicates the processor itself rejected the payment
// confirmation (card declined, insufficient funds), as opposed to a
// transport or server failure.
type DeclineError struct {
	Message string
}

func (e *DeclineError) Error() string {
	return fmt.Sprintf("payment declined: %s", e.Message)
}
