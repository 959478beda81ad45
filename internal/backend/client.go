// Package backend is the HTTP client for the storefront's order backend:
// payment intent issuing and finalized order submission. Both endpoints live
// under one configurable base URL with relative /api paths.
package backend

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/elit-storefront/internal/domain/cart"
	"github.com/xenking/elit-storefront/internal/domain/checkout"
)

var _ checkout.OrderGateway = (*Client)(nil)

// Client talks to the order backend over HTTP/JSON.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a backend client. httpClient may carry instrumented
// transports; a nil httpClient falls back to http.DefaultClient.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		http:    httpClient,
		baseURL: baseURL,
	}
}

// CreatePaymentIntent asks the backend to issue a payment intent for the
// given total and returns the client secret used to confirm it.
func (c *Client) CreatePaymentIntent(ctx context.Context, total decimal.Decimal) (string, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("totalPrice")
	e.Raw([]byte(total.String()))
	e.ObjEnd()

	body, err := c.post(ctx, "/api/create-payment-intent", e.Bytes())
	if err != nil {
		return "", err
	}

	var secret string
	if err := jx.DecodeBytes(body).Obj(func(d *jx.Decoder, key string) error {
		if key != "clientSecret" {
			return d.Skip()
		}
		v, err := d.Str()
		if err != nil {
			return err
		}
		secret = v
		return nil
	}); err != nil {
		return "", errors.Wrap(err, "decode payment intent")
	}
	if secret == "" {
		return "", errors.New("backend returned no client secret")
	}
	return secret, nil
}

// SubmitOrder posts the finalized order: the frozen cart snapshot, the total
// charged, and the buyer's delivery details.
func (c *Client) SubmitOrder(ctx context.Context, sub checkout.OrderSubmission) error {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("cartItems")
	encodeCartItems(&e, sub.Items)
	e.FieldStart("totalPrice")
	e.Raw([]byte(sub.Total.String()))
	e.FieldStart("userInfo")
	e.ObjStart()
	e.FieldStart("name")
	e.Str(sub.Buyer.Name)
	e.FieldStart("email")
	e.Str(sub.Buyer.Email)
	e.FieldStart("address")
	e.Str(sub.Buyer.Address)
	e.FieldStart("clientNumber")
	e.Str(sub.Buyer.ClientNumber)
	e.ObjEnd()
	e.ObjEnd()

	_, err := c.post(ctx, "/api/checkout", e.Bytes())
	return err
}

func encodeCartItems(e *jx.Encoder, items []cart.Item) {
	e.ArrStart()
	for _, item := range items {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(item.ID)
		e.FieldStart("title")
		e.Str(item.Title)
		e.FieldStart("img")
		e.Str(item.ImageRef)
		e.FieldStart("price")
		e.Raw([]byte(item.Price.String()))
		e.FieldStart("quantity")
		e.Int(item.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
}

// post issues a JSON POST and returns the response body; non-2xx statuses
// become errors carrying the status code and body.
func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "POST %s", path)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("POST %s: unexpected status %d: %s", path, resp.StatusCode, respBody)
	}
	return respBody, nil
}
