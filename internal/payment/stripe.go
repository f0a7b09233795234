package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bloodlink/bloodlink-backend/pkg/apperr"
)

const defaultAPIBase = "https://api.stripe.com/v1"

// StripeClient talks to the Stripe Checkout Sessions API directly. The
// surface we need is small enough that a form-encoded HTTP client keeps the
// dependency footprint down.
type StripeClient struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewStripeClient(secretKey string) *StripeClient {
	return &StripeClient{
		secretKey: secretKey,
		baseURL:   defaultAPIBase,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewStripeClientWithBase is used by tests to point at a fake server.
func NewStripeClientWithBase(secretKey, baseURL string) *StripeClient {
	c := NewStripeClient(secretKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type sessionPayload struct {
	ID              string `json:"id"`
	URL             string `json:"url"`
	Status          string `json:"status"`
	PaymentStatus   string `json:"payment_status"`
	PaymentIntent   string `json:"payment_intent"`
	AmountTotal     int64  `json:"amount_total"`
	Currency        string `json:"currency"`
	Created         int64  `json:"created"`
	CustomerDetails struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"customer_details"`
	Metadata map[string]string `json:"metadata"`
}

func (c *StripeClient) CreateSession(ctx context.Context, in CheckoutInput) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", in.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(in.AmountMinorUnits, 10))
	form.Set("line_items[0][price_data][product_data][name]", in.Purpose)
	form.Set("success_url", in.SuccessURL)
	form.Set("cancel_url", in.CancelURL)
	if in.CustomerEmail != "" {
		form.Set("customer_email", in.CustomerEmail)
	}
	if in.CustomerName != "" {
		form.Set("metadata[donor_name]", in.CustomerName)
	}
	if in.CustomerPhoto != "" {
		form.Set("metadata[donor_photo]", in.CustomerPhoto)
	}

	return c.do(ctx, http.MethodPost, "/checkout/sessions", strings.NewReader(form.Encode()))
}

func (c *StripeClient) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	return c.do(ctx, http.MethodGet, "/checkout/sessions/"+url.PathEscape(sessionID), nil)
}

func (c *StripeClient) do(ctx context.Context, method, path string, body io.Reader) (*Session, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "build payment request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Unavailable, "payment processor unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Unavailable, "read payment response")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperr.New(apperr.NotFound, "checkout session not found")
	case resp.StatusCode >= 500:
		return nil, apperr.New(apperr.Unavailable, "payment processor error (%d)", resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, apperr.New(apperr.Invalid, "payment processor rejected request (%d): %s",
			resp.StatusCode, truncate(raw, 200))
	}

	var p sessionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "decode payment response")
	}

	return &Session{
		ID:               p.ID,
		URL:              p.URL,
		Status:           p.Status,
		PaymentStatus:    p.PaymentStatus,
		PaymentIntentID:  p.PaymentIntent,
		CustomerName:     p.CustomerDetails.Name,
		CustomerEmail:    p.CustomerDetails.Email,
		AmountMinorUnits: p.AmountTotal,
		Currency:         p.Currency,
		CreatedAt:        time.Unix(p.Created, 0).UTC(),
		Metadata:         p.Metadata,
	}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return fmt.Sprintf("%s...", b[:n])
}

var _ Gateway = (*StripeClient)(nil)
