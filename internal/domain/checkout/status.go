package checkout

// Status is the state of a checkout attempt. Transitions are strictly
// ordered: tokenization precedes intent confirmation, which precedes order
// submission; a failed attempt is never resumed mid-sequence.
type Status string

const (
	StatusIdle            Status = "idle"
	StatusTokenizing      Status = "tokenizing_payment"
	StatusConfirming      Status = "confirming_payment"
	StatusSubmittingOrder Status = "submitting_order"
	StatusSucceeded       Status = "succeeded"
	StatusFailed          Status = "failed"
)

// Terminal reports whether the status ends an attempt.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// String representation (for logging).
func (s Status) String() string {
	return string(s)
}

// FailureReason classifies a failed checkout attempt. Each reason maps to a
// distinct user-facing message and a distinct recovery story.
type FailureReason string

const (
	// ReasonNone marks attempts that did not fail.
	ReasonNone FailureReason = ""
	// ReasonInvalidCardDetails: tokenization rejected the card input. No
	// backend call was made; the buyer corrects the card and retries.
	ReasonInvalidCardDetails FailureReason = "invalid_card_details"
	// ReasonPaymentIntentUnavailable: the backend failed to issue a payment
	// intent. No funds moved; safe to retry from scratch.
	ReasonPaymentIntentUnavailable FailureReason = "payment_intent_unavailable"
	// ReasonPaymentDeclined: the processor rejected the confirmation. No
	// funds moved; safe to retry from scratch.
	ReasonPaymentDeclined FailureReason = "payment_declined"
	// ReasonOrderSubmissionAfterPayment: payment succeeded but the order
	// record could not be submitted. Money has moved without an order; the
	// buyer must contact support rather than pay again.
	ReasonOrderSubmissionAfterPayment FailureReason = "order_submission_after_payment"
)
