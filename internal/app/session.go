package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/elit-storefront/internal/domain/cart"
	"github.com/xenking/elit-storefront/internal/domain/checkout"
	"github.com/xenking/elit-storefront/internal/domain/pricing"
	"github.com/xenking/elit-storefront/internal/payment"
	"github.com/xenking/elit-storefront/internal/storage"
	"github.com/xenking/elit-storefront/pkg/health"
	"github.com/xenking/elit-storefront/pkg/notify"
)

// userNameKey is the storage key for the buyer's display name. It shares the
// durable storage with the cart but is otherwise unrelated to cart logic.
const userNameKey = "userName"

// Session is the interactive line-oriented storefront surface: it renders
// the cart, relays buyer commands to the domain stores, and prints outcome
// notifications. It stands in for the original web presentation layer.
type Session struct {
	in      io.Reader
	scanner *bufio.Scanner
	store   *cart.Store
	form    *checkout.Form
	kv      storage.KV
	monitor *health.Monitor
	lg      *zap.Logger

	// orchestrator is set after construction: it needs the session as its
	// notifier.
	orchestrator *checkout.Orchestrator

	outMu sync.Mutex
	out   io.Writer
}

var _ notify.Notifier = (*Session)(nil)

// NewSession creates a session reading commands from in and printing to out.
func NewSession(
	in io.Reader,
	out io.Writer,
	store *cart.Store,
	form *checkout.Form,
	kv storage.KV,
	monitor *health.Monitor,
	lg *zap.Logger,
) *Session {
	return &Session{
		in:      in,
		scanner: bufio.NewScanner(in),
		out:     out,
		store:   store,
		form:    form,
		kv:      kv,
		monitor: monitor,
		lg:      lg,
	}
}

// Notify prints one user-facing outcome notification, the session's
// equivalent of a toast.
func (s *Session) Notify(level notify.Level, message string) {
	s.printf("[%s] %s\n", level, message)
}

// CloseInput closes the input stream when it is closable, unblocking Run.
func (s *Session) CloseInput() {
	if c, ok := s.in.(io.Closer); ok {
		_ = c.Close()
	}
}

// Run drives the command loop until the input ends or the buyer quits.
func (s *Session) Run(ctx context.Context) error {
	if name, err := s.kv.Get(ctx, userNameKey); err == nil && name != "" {
		s.printf("Welcome back, %s.\n", name)
	}
	s.printCart()

	// Reprint the running total after every cart change, recomputed from a
	// fresh snapshot each time.
	unsubscribe := s.store.Subscribe(func(items []cart.Item) {
		s.printf("Total: $%s (%d items)\n", pricing.Total(items).StringFixed(2), len(items))
	})
	defer unsubscribe()

	for {
		s.printf("> ")
		line, ok := s.readLine()
		if !ok {
			return nil
		}
		if line == "" {
			continue
		}
		if quit := s.dispatch(ctx, line); quit {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// dispatch executes one command line; it returns true when the session
// should end.
func (s *Session) dispatch(ctx context.Context, line string) bool {
	args := strings.Fields(line)
	cmd, args := args[0], args[1:]

	switch cmd {
	case "help":
		s.printHelp()
	case "cart", "list":
		s.printCart()
	case "add":
		s.cmdAdd(ctx, args)
	case "inc":
		s.cmdQuantity(ctx, args, +1)
	case "dec":
		s.cmdQuantity(ctx, args, -1)
	case "rm", "remove":
		if len(args) != 1 {
			s.printf("usage: rm <id>\n")
			return false
		}
		s.store.Remove(ctx, args[0])
	case "total":
		s.printf("Total: $%s\n", pricing.Total(s.store.Snapshot()).StringFixed(2))
	case "name":
		s.cmdName(ctx, args)
	case "logout":
		if err := s.kv.Delete(ctx, userNameKey); err != nil {
			s.lg.Warn("clearing display name failed", zap.Error(err))
		}
		s.printf("Logged out.\n")
	case "status":
		s.cmdStatus()
	case "checkout":
		s.cmdCheckout(ctx)
	case "quit", "exit":
		return true
	default:
		s.printf("unknown command %q, try help\n", cmd)
	}
	return false
}

func (s *Session) cmdAdd(ctx context.Context, args []string) {
	if len(args) < 3 {
		s.printf("usage: add <id> <price> <title...>\n")
		return
	}
	price, err := decimal.NewFromString(args[1])
	if err != nil || price.IsNegative() {
		s.printf("invalid price %q\n", args[1])
		return
	}
	s.store.AddOrIncrement(ctx, cart.Item{
		ID:    args[0],
		Title: strings.Join(args[2:], " "),
		Price: price,
	})
}

// cmdQuantity adjusts an item's quantity by delta. Mirroring the storefront
// UI, decrement is refused at quantity 1: removal is explicit.
func (s *Session) cmdQuantity(ctx context.Context, args []string, delta int) {
	if len(args) != 1 {
		s.printf("usage: inc|dec <id>\n")
		return
	}
	for _, item := range s.store.Snapshot() {
		if item.ID != args[0] {
			continue
		}
		next := item.Quantity + delta
		if next < 1 {
			s.printf("quantity is already 1; use rm to remove the item\n")
			return
		}
		s.store.SetQuantity(ctx, item.ID, next)
		return
	}
	s.printf("no item %q in cart\n", args[0])
}

func (s *Session) cmdName(ctx context.Context, args []string) {
	if len(args) == 0 {
		name, err := s.kv.Get(ctx, userNameKey)
		if errors.Is(err, storage.ErrNotFound) {
			s.printf("no display name set\n")
			return
		}
		if err != nil {
			s.printf("could not read display name: %v\n", err)
			return
		}
		s.printf("%s\n", name)
		return
	}
	name := strings.Join(args, " ")
	if err := s.kv.Set(ctx, userNameKey, name); err != nil {
		s.lg.Warn("saving display name failed", zap.Error(err))
	}
	s.printf("Welcome, %s.\n", name)
}

func (s *Session) cmdStatus() {
	s.printf("checkout: %s\n", s.orchestrator.Status())
	if s.monitor.Available() {
		s.printf("backend: online\n")
		return
	}
	for name, reason := range s.monitor.Failures() {
		s.printf("backend: offline (%s: %s)\n", name, reason)
	}
}

// cmdCheckout collects delivery and card details, then runs one checkout
// attempt. The orchestrator reports the outcome through Notify.
func (s *Session) cmdCheckout(ctx context.Context) {
	if s.store.Len() == 0 {
		s.printf("Your cart is empty.\n")
		return
	}
	if s.orchestrator.Processing() {
		s.printf("Checkout already in progress.\n")
		return
	}

	s.form.Open()
	s.printf("Delivery information (press enter to keep the previous value):\n")
	prompts := []struct {
		field checkout.Field
		label string
	}{
		{checkout.FieldName, "Full name"},
		{checkout.FieldEmail, "Email"},
		{checkout.FieldAddress, "Delivery address"},
		{checkout.FieldClientNumber, "Phone number"},
	}
	for _, p := range prompts {
		s.printf("%s: ", p.label)
		value, ok := s.readLine()
		if !ok {
			return
		}
		if value == "" {
			// Retained from a previous failed attempt.
			continue
		}
		if err := s.form.UpdateField(p.field, value); err != nil {
			s.printf("%v\n", err)
			return
		}
	}

	card, ok := s.readCard()
	if !ok {
		return
	}

	attempt, err := s.orchestrator.Checkout(ctx, card)
	if err != nil {
		s.lg.Debug("checkout attempt did not succeed", zap.Error(err))
		return
	}
	s.printf("Order reference: %s\n", attempt.ID)
}

// readCard prompts for the card fields. Parsing failures yield zero fields;
// the processor (or its local completeness check) rejects those.
func (s *Session) readCard() (payment.CardDetails, bool) {
	var card payment.CardDetails

	s.printf("Card number: ")
	number, ok := s.readLine()
	if !ok {
		return card, false
	}
	card.Number = strings.ReplaceAll(number, " ", "")

	s.printf("Expiry (MM/YY): ")
	expiry, ok := s.readLine()
	if !ok {
		return card, false
	}
	if month, year, err := parseExpiry(expiry); err == nil {
		card.ExpMonth, card.ExpYear = month, year
	}

	s.printf("CVC: ")
	cvc, ok := s.readLine()
	if !ok {
		return card, false
	}
	card.CVC = cvc

	return card, true
}

// parseExpiry parses "MM/YY" or "MM/YYYY".
func parseExpiry(value string) (month, year int, err error) {
	parts := strings.SplitN(value, "/", 2)
	if len(parts) != 2 {
		return 0, 0, errors.Errorf("invalid expiry %q", value)
	}
	month, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, errors.Errorf("invalid expiry month %q", parts[0])
	}
	year, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, errors.Errorf("invalid expiry year %q", parts[1])
	}
	if year < 100 {
		year += 2000
	}
	return month, year, nil
}

func (s *Session) readLine() (string, bool) {
	if !s.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.scanner.Text()), true
}

func (s *Session) printCart() {
	items := s.store.Snapshot()
	if len(items) == 0 {
		s.printf("Your cart is empty.\n")
		return
	}
	for _, item := range items {
		s.printf("  %-10s %-30s $%-8s x%d\n",
			item.ID, item.Title, item.Price.StringFixed(2), item.Quantity)
	}
	s.printf("Total: $%s\n", pricing.Total(items).StringFixed(2))
}

func (s *Session) printHelp() {
	s.printf(`commands:
  cart                     show cart contents
  add <id> <price> <title> add an item (repeat to increment)
  inc|dec <id>             change quantity (never below 1)
  rm <id>                  remove an item
  total                    show the cart total
  checkout                 start the payment flow
  name [value]             show or set the display name
  logout                   clear the display name
  status                   checkout and backend status
  quit                     leave the storefront
`)
}

func (s *Session) printf(format string, args ...any) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}
