package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"alxtravel/pkg/utils"
)

// ChapaClient talks to the Chapa transaction API. It never retries.
type ChapaClient interface {
	InitializeTransaction(ctx context.Context, req InitializeTransactionRequest) (*InitializeTransactionResult, error)
	VerifyTransaction(ctx context.Context, txRef string) (*VerifyTransactionResult, error)
}

type Customization struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type InitializeTransactionRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Email         string          `json:"email"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	PhoneNumber   string          `json:"phone_number"`
	TxRef         string          `json:"tx_ref"`
	CallbackURL   string          `json:"callback_url"`
	ReturnURL     string          `json:"return_url"`
	Customization Customization   `json:"customization"`
}

type InitializeTransactionResult struct {
	CheckoutURL string
}

type VerifyTransactionResult struct {
	Status    string
	Reference string
	Method    string
}

type chapaEnvelope struct {
	Status  string          `json:"status"`
	Message json.RawMessage `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type chapaClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewChapaClient(baseURL, secretKey string, timeout time.Duration) ChapaClient {
	return &chapaClient{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *chapaClient) InitializeTransaction(ctx context.Context, req InitializeTransactionRequest) (*InitializeTransactionResult, error) {
	// the gateway expects the amount as a string with two decimals
	payload := struct {
		InitializeTransactionRequest
		Amount string `json:"amount"`
	}{
		InitializeTransactionRequest: req,
		Amount:                       req.Amount.StringFixed(2),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal initialize request: %w", err)
	}

	env, err := c.do(ctx, "initialize", http.MethodPost, c.baseURL+"/transaction/initialize", body)
	if err != nil {
		return nil, err
	}

	var data struct {
		CheckoutURL string `json:"checkout_url"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.CheckoutURL == "" {
		return nil, &utils.GatewayError{
			Kind:    utils.ErrGatewayUnreachable,
			Op:      "initialize",
			Message: "response has no checkout_url",
			Err:     err,
		}
	}

	return &InitializeTransactionResult{CheckoutURL: data.CheckoutURL}, nil
}

func (c *chapaClient) VerifyTransaction(ctx context.Context, txRef string) (*VerifyTransactionResult, error) {
	endpoint := c.baseURL + "/transaction/verify/" + url.PathEscape(txRef)

	env, err := c.do(ctx, "verify", http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var data struct {
		Status    string  `json:"status"`
		Reference *string `json:"reference"`
		Method    *string `json:"method"`
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, &utils.GatewayError{Kind: utils.ErrGatewayUnreachable, Op: "verify", Err: err}
		}
	}

	res := &VerifyTransactionResult{Status: data.Status}
	if data.Reference != nil {
		res.Reference = *data.Reference
	}
	if data.Method != nil {
		res.Method = *data.Method
	}
	return res, nil
}

// do sends the request and returns the decoded envelope of a 2xx response
// whose status is "success".
func (c *chapaClient) do(ctx context.Context, op, method, endpoint string, body []byte) (*chapaEnvelope, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &utils.GatewayError{Kind: utils.ErrGatewayUnreachable, Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &utils.GatewayError{Kind: utils.ErrGatewayUnreachable, Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &utils.GatewayError{Kind: utils.ErrGatewayUnreachable, Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &utils.GatewayError{
			Kind:       utils.ErrGatewayUnreachable,
			Op:         op,
			StatusCode: resp.StatusCode,
		}
	}

	var env chapaEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &utils.GatewayError{Kind: utils.ErrGatewayUnreachable, Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	if env.Status != "success" {
		msg := providerMessage(env.Message)
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, &utils.GatewayError{
			Kind:       utils.ErrGatewayRejected,
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
	}

	return &env, nil
}

// providerMessage flattens the gateway "message" field, which is either a
// string or an object of field errors.
func providerMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
