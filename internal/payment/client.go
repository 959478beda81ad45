package payment

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Client is a REST client for the payment processor API. Card details are
// exchanged for a payment method reference, and payment intents issued by
// the order backend are confirmed against that reference.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewClient creates a processor client. httpClient may carry instrumented
// transports; a nil httpClient falls back to http.DefaultClient.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Tokenize exchanges raw card details for an opaque payment method
// reference. The card data never goes anywhere but the processor.
func (c *Client) Tokenize(ctx context.Context, card CardDetails) (MethodRef, error) {
	if !card.Complete() {
		return "", errors.New("incomplete card details")
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("card")
	e.ObjStart()
	e.FieldStart("number")
	e.Str(card.Number)
	e.FieldStart("exp_month")
	e.Int(card.ExpMonth)
	e.FieldStart("exp_year")
	e.Int(card.ExpYear)
	e.FieldStart("cvc")
	e.Str(card.CVC)
	e.ObjEnd()
	e.ObjEnd()

	body, err := c.post(ctx, "/v1/payment_methods", e.Bytes())
	if err != nil {
		return "", err
	}

	var ref MethodRef
	if err := jx.DecodeBytes(body).Obj(func(d *jx.Decoder, key string) error {
		if key != "id" {
			return d.Skip()
		}
		v, err := d.Str()
		if err != nil {
			return err
		}
		ref = MethodRef(v)
		return nil
	}); err != nil {
		return "", errors.Wrap(err, "decode payment method")
	}
	if ref == "" {
		return "", errors.New("processor returned no payment method id")
	}
	return ref, nil
}

// ConfirmPayment asks the processor to confirm the payment intent identified
// by clientSecret using the tokenized method. A processor-level rejection is
// returned as *DeclineError; transport and server failures as plain errors.
func (c *Client) ConfirmPayment(ctx context.Context, clientSecret string, method MethodRef) error {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("client_secret")
	e.Str(clientSecret)
	e.FieldStart("payment_method")
	e.Str(string(method))
	e.ObjEnd()

	_, err := c.post(ctx, "/v1/payment_intents/confirm", e.Bytes())
	return err
}

// post issues a JSON POST and returns the response body. A 402 response is
// decoded into *DeclineError; any other non-2xx status is a plain error.
func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "POST %s", path)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	if resp.StatusCode == http.StatusPaymentRequired {
		return nil, &DeclineError{Message: errorMessage(respBody)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("POST %s: unexpected status %d: %s", path, resp.StatusCode, errorMessage(respBody))
	}
	return respBody, nil
}

// errorMessage extracts error.message from a processor error body, falling
// back to the raw body.
func errorMessage(body []byte) string {
	var msg string
	err := jx.DecodeBytes(body).Obj(func(d *jx.Decoder, key string) error {
		if key != "error" {
			return d.Skip()
		}
		return d.Obj(func(d *jx.Decoder, key string) error {
			if key != "message" {
				return d.Skip()
			}
			v, err := d.Str()
			if err != nil {
				return err
			}
			msg = v
			return nil
		})
	})
	if err != nil || msg == "" {
		return string(body)
	}
	return msg
}
