package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/elit-storefront/internal/domain/cart"
	"github.com/xenking/elit-storefront/internal/domain/pricing"
	"github.com/xenking/elit-storefront/internal/payment"
	"github.com/xenking/elit-storefront/pkg/notify"
)

// Processor is the payment processor capability the orchestrator depends on:
// card data in, opaque method reference out, plus intent confirmation.
// Substitutable with a fake in tests.
type Processor interface {
	Tokenize(ctx context.Context, card payment.CardDetails) (payment.MethodRef, error)
	ConfirmPayment(ctx context.Context, clientSecret string, method payment.MethodRef) error
}

// OrderSubmission is the finalized order sent to the backend after payment
// confirmation succeeds.
type OrderSubmission struct {
	Items []cart.Item
	Total decimal.Decimal
	Buyer BuyerInfo
}

// OrderGateway is the order backend the orchestrator talks to.
type OrderGateway interface {
	CreatePaymentIntent(ctx context.Context, total decimal.Decimal) (clientSecret string, err error)
	SubmitOrder(ctx context.Context, sub OrderSubmission) error
}

// Attempt is one run of the checkout sequence. Items, Total, and Buyer are
// frozen when the attempt starts; later cart or form edits never alter an
// attempt in flight.
type Attempt struct {
	ID     string
	Items  []cart.Item
	Total  decimal.Decimal
	Buyer  BuyerInfo
	Status Status
	Reason FailureReason
	Err    error
}

// Orchestrator sequences tokenization, payment intent confirmation, and
// order submission. At most one attempt runs at a time; an attempt runs to a
// terminal state without user-initiated abort.
type Orchestrator struct {
	store     *cart.Store
	form      *Form
	processor Processor
	gateway   OrderGateway
	notifier  notify.Notifier
	lg        *zap.Logger

	// stepTimeout bounds each network call so a stalled collaborator turns
	// into the staged failure instead of wedging the state machine.
	stepTimeout time.Duration

	mu     sync.Mutex
	status Status
	last   *Attempt
}

// NewOrchestrator wires the orchestrator with its collaborators.
func NewOrchestrator(
	store *cart.Store,
	form *Form,
	processor Processor,
	gateway OrderGateway,
	notifier notify.Notifier,
	lg *zap.Logger,
	stepTimeout time.Duration,
) *Orchestrator {
	if stepTimeout <= 0 {
		stepTimeout = 30 * time.Second
	}
	return &Orchestrator{
		store:       store,
		form:        form,
		processor:   processor,
		gateway:     gateway,
		notifier:    notifier,
		lg:          lg,
		stepTimeout: stepTimeout,
		status:      StatusIdle,
	}
}

// Status returns the state of the attempt currently in flight, or StatusIdle
// when none is. The presentation layer uses this as the "processing" flag to
// disable the pay control.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Processing reports whether an attempt is currently in flight.
func (o *Orchestrator) Processing() bool {
	return o.Status() != StatusIdle
}

// LastAttempt returns the most recently finished or in-flight attempt, or
// nil when none has been made.
func (o *Orchestrator) LastAttempt() *Attempt {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// Checkout runs one checkout attempt: validate buyer info, freeze cart
// snapshot and total, tokenize the card, create and confirm a payment
// intent, and submit the order. Every terminal outcome produces exactly one
// notification. The returned attempt carries the terminal status and, on
// failure, the classified reason.
func (o *Orchestrator) Checkout(ctx context.Context, card payment.CardDetails) (*Attempt, error) {
	attempt, err := o.begin()
	if err != nil {
		return nil, err
	}

	lg := o.lg.With(
		zap.String("attempt_id", attempt.ID),
		zap.String("total", attempt.Total.String()),
	)
	lg.Info("checkout attempt started", zap.Int("items", len(attempt.Items)))

	// Stage 1: tokenization. On failure the backend is never contacted.
	method, err := o.tokenize(ctx, card)
	if err != nil {
		cause := &InvalidCardDetailsError{Cause: err}
		return o.fail(attempt, ReasonInvalidCardDetails, cause,
			"Please provide valid card details."), cause
	}

	// Stage 2: payment intent creation and confirmation.
	o.transition(attempt, StatusConfirming)

	secret, err := o.createIntent(ctx, attempt.Total)
	if err != nil {
		cause := &PaymentIntentUnavailableError{Cause: err}
		return o.fail(attempt, ReasonPaymentIntentUnavailable, cause,
			"Payment service is currently unavailable. Please try again."), cause
	}

	if err := o.confirm(ctx, secret, method); err != nil {
		var decline *payment.DeclineError
		msg := err.Error()
		if errors.As(err, &decline) {
			msg = decline.Message
		}
		cause := &PaymentDeclinedError{Message: msg}
		return o.fail(attempt, ReasonPaymentDeclined, cause,
			fmt.Sprintf("Payment failed: %s", msg)), cause
	}

	// Stage 3: order submission. Entered only after the payment confirmed.
	o.transition(attempt, StatusSubmittingOrder)

	if err := o.submitOrder(ctx, attempt); err != nil {
		cause := &OrderSubmissionError{AttemptID: attempt.ID, Cause: err}
		lg.Error("order submission failed after successful payment", zap.Error(err))
		return o.fail(attempt, ReasonOrderSubmissionAfterPayment, cause,
			fmt.Sprintf("Your payment went through, but we could not record your order. "+
				"Do not pay again — contact support with reference %s.", attempt.ID)), cause
	}

	// Success: clear transient state and report once.
	o.store.Clear(ctx)
	o.form.Dismiss()
	o.finish(attempt, StatusSucceeded, ReasonNone, nil)
	o.notifier.Notify(notify.LevelSuccess, "Order placed successfully!")
	lg.Info("checkout attempt succeeded")

	return attempt, nil
}

// begin performs the gate checks and, when they pass, freezes the attempt
// and marks the orchestrator busy — all under one lock so two concurrent
// submissions can never both start.
func (o *Orchestrator) begin() (*Attempt, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status != StatusIdle {
		o.notifier.Notify(notify.LevelInfo, "Checkout already in progress.")
		return nil, ErrAttemptInProgress
	}

	if err := o.form.Validate(); err != nil {
		o.notifier.Notify(notify.LevelError, "All delivery fields must be filled in.")
		return nil, err
	}

	snapshot := o.store.Snapshot()
	if len(snapshot) == 0 {
		o.notifier.Notify(notify.LevelError, "Your cart is empty.")
		return nil, ErrCartEmpty
	}

	attempt := &Attempt{
		ID:     uuid.New().String(),
		Items:  snapshot,
		Total:  pricing.Total(snapshot),
		Buyer:  o.form.Info(),
		Status: StatusTokenizing,
	}
	o.status = StatusTokenizing
	o.last = attempt
	return attempt, nil
}

func (o *Orchestrator) tokenize(ctx context.Context, card payment.CardDetails) (payment.MethodRef, error) {
	ctx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()
	return o.processor.Tokenize(ctx, card)
}

func (o *Orchestrator) createIntent(ctx context.Context, total decimal.Decimal) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()
	return o.gateway.CreatePaymentIntent(ctx, total)
}

func (o *Orchestrator) confirm(ctx context.Context, secret string, method payment.MethodRef) error {
	ctx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()
	return o.processor.ConfirmPayment(ctx, secret, method)
}

func (o *Orchestrator) submitOrder(ctx context.Context, attempt *Attempt) error {
	ctx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()
	return o.gateway.SubmitOrder(ctx, OrderSubmission{
		Items: attempt.Items,
		Total: attempt.Total,
		Buyer: attempt.Buyer,
	})
}

// transition advances the in-flight attempt to the next stage.
func (o *Orchestrator) transition(attempt *Attempt, next Status) {
	o.mu.Lock()
	attempt.Status = next
	o.status = next
	o.mu.Unlock()
	o.lg.Debug("checkout transition",
		zap.String("attempt_id", attempt.ID),
		zap.Stringer("status", next),
	)
}

// fail finalizes the attempt with a failure reason and emits the single
// user-facing notification for it.
func (o *Orchestrator) fail(attempt *Attempt, reason FailureReason, cause error, message string) *Attempt {
	o.finish(attempt, StatusFailed, reason, cause)
	o.notifier.Notify(notify.LevelError, message)
	o.lg.Warn("checkout attempt failed",
		zap.String("attempt_id", attempt.ID),
		zap.String("reason", string(reason)),
		zap.Error(cause),
	)
	return attempt
}

// finish records the terminal state and returns the orchestrator to idle so
// a brand-new attempt can start. The finished attempt itself is never
// resumed.
func (o *Orchestrator) finish(attempt *Attempt, status Status, reason FailureReason, err error) {
	o.mu.Lock()
	attempt.Status = status
	attempt.Reason = reason
	attempt.Err = err
	o.status = StatusIdle
	o.mu.Unlock()
}
