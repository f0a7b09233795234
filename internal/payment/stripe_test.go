package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink-backend/pkg/apperr"
)

func TestGetSessionParsesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/sessions/cs_test_1", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cs_test_1",
			"status": "complete",
			"payment_status": "paid",
			"payment_intent": "pi_123",
			"amount_total": 2500,
			"currency": "usd",
			"created": 1756684800,
			"customer_details": {"name": "Jane Doe", "email": "jane@example.com"},
			"metadata": {"donor_name": "Jane Doe"}
		}`))
	}))
	defer srv.Close()

	c := NewStripeClientWithBase("sk_test", srv.URL)
	s, err := c.GetSession(context.Background(), "cs_test_1")
	require.NoError(t, err)

	assert.True(t, s.Complete())
	assert.Equal(t, "pi_123", s.PaymentIntentID)
	assert.Equal(t, int64(2500), s.AmountMinorUnits)
	assert.InDelta(t, 25.0, s.Amount(), 0.001)
	assert.Equal(t, "jane@example.com", s.CustomerEmail)
	assert.Equal(t, "Jane Doe", s.Metadata["donor_name"])
}

func TestGetSessionNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewStripeClientWithBase("sk_test", srv.URL)
	_, err := c.GetSession(context.Background(), "cs_missing")
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	assert.False(t, apperr.Retryable(err))
}

func TestGetSessionServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewStripeClientWithBase("sk_test", srv.URL)
	_, err := c.GetSession(context.Background(), "cs_test_1")
	require.Error(t, err)
	assert.Equal(t, apperr.Unavailable, apperr.KindOf(err))
	assert.True(t, apperr.Retryable(err))
}

func TestCreateSessionSendsFormFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "usd", r.PostForm.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "5000", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "Jane Doe", r.PostForm.Get("metadata[donor_name]"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cs_new", "url": "https://checkout.example/cs_new", "status": "open"}`))
	}))
	defer srv.Close()

	c := NewStripeClientWithBase("sk_test", srv.URL)
	s, err := c.CreateSession(context.Background(), CheckoutInput{
		AmountMinorUnits: 5000,
		Currency:         "usd",
		Purpose:          "BloodLink donation",
		CustomerName:     "Jane Doe",
		SuccessURL:       "https://app.example/funding/success",
		CancelURL:        "https://app.example/funding",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_new", s.ID)
	assert.False(t, s.Complete())
}

func TestBadRequestIsInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "Invalid currency"}}`))
	}))
	defer srv.Close()

	c := NewStripeClientWithBase("sk_test", srv.URL)
	_, err := c.CreateSession(context.Background(), CheckoutInput{AmountMinorUnits: 100, Currency: "zzz"})
	require.Error(t, err)
	assert.Equal(t, apperr.Invalid, apperr.KindOf(err))
}
