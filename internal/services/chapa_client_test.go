package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alxtravel/pkg/utils"
)

func TestChapaClient_InitializeTransaction(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer CHASECK_TEST", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Hosted Link","status":"success","data":{"checkout_url":"https://checkout.chapa.co/checkout/payment/abc"}}`))
	}))
	defer srv.Close()

	client := NewChapaClient(srv.URL, "CHASECK_TEST", 5*time.Second)
	res, err := client.InitializeTransaction(context.Background(), InitializeTransactionRequest{
		Amount:      decimal.RequireFromString("100"),
		Currency:    "ETB",
		Email:       "test@example.com",
		FirstName:   "Test",
		TxRef:       "tx_abc123def456",
		CallbackURL: "http://localhost/api/payments/callback",
		ReturnURL:   "http://localhost/payment-success/",
		Customization: Customization{
			Title:       "ALX Travel App",
			Description: "Payment for booking BK-1",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.chapa.co/checkout/payment/abc", res.CheckoutURL)
	assert.Equal(t, "100.00", got["amount"])
	assert.Equal(t, "tx_abc123def456", got["tx_ref"])
	assert.Equal(t, "ETB", got["currency"])
	assert.Equal(t, "ALX Travel App", got["customization"].(map[string]interface{})["title"])
}

func TestChapaClient_InitializeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"Invalid currency","status":"failed","data":null}`))
	}))
	defer srv.Close()

	client := NewChapaClient(srv.URL, "key", time.Second)
	_, err := client.InitializeTransaction(context.Background(), InitializeTransactionRequest{Amount: decimal.NewFromInt(1)})
	require.Error(t, err)

	var gwErr *utils.GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.ErrorIs(t, err, utils.ErrGatewayRejected)
	assert.Equal(t, "Invalid currency", gwErr.Message)
}

func TestChapaClient_RejectedWithFieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":{"email":["The email must be valid."]},"status":"failed"}`))
	}))
	defer srv.Close()

	client := NewChapaClient(srv.URL, "key", time.Second)
	_, err := client.InitializeTransaction(context.Background(), InitializeTransactionRequest{})

	var gwErr *utils.GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Contains(t, gwErr.Message, "The email must be valid.")
}

func TestChapaClient_Non2xxIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewChapaClient(srv.URL, "key", time.Second)
	_, err := client.VerifyTransaction(context.Background(), "tx_1")

	var gwErr *utils.GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.ErrorIs(t, err, utils.ErrGatewayUnreachable)
	assert.Equal(t, http.StatusBadGateway, gwErr.StatusCode)
}

func TestChapaClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewChapaClient(url, "key", time.Second)
	_, err := client.VerifyTransaction(context.Background(), "tx_1")
	assert.ErrorIs(t, err, utils.ErrGatewayUnreachable)
}

func TestChapaClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := NewChapaClient(srv.URL, "key", 50*time.Millisecond)
	_, err := client.VerifyTransaction(context.Background(), "tx_1")
	assert.ErrorIs(t, err, utils.ErrGatewayUnreachable)
}

func TestChapaClient_VerifyTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transaction/verify/tx_abc123def456", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":"Payment details","status":"success","data":{"status":"success","reference":"APfxyz","method":"telebirr","tx_ref":"tx_abc123def456"}}`))
	}))
	defer srv.Close()

	client := NewChapaClient(srv.URL, "key", time.Second)
	res, err := client.VerifyTransaction(context.Background(), "tx_abc123def456")
	require.NoError(t, err)

	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "APfxyz", res.Reference)
	assert.Equal(t, "telebirr", res.Method)
}

func TestChapaClient_VerifyPendingWithoutDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"Payment details","status":"success","data":{"status":"pending","reference":null,"method":null}}`))
	}))
	defer srv.Close()

	client := NewChapaClient(srv.URL, "key", time.Second)
	res, err := client.VerifyTransaction(context.Background(), "tx_1")
	require.NoError(t, err)

	assert.Equal(t, "pending", res.Status)
	assert.Empty(t, res.Reference)
	assert.Empty(t, res.Method)
}
