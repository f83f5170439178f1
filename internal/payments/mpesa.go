package payments

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"strings"
	"time"

	"deluxetours/internal/shared/config"
)

var (
	ErrMpesaAuth          = errors.New("mpesa authentication failed")
	ErrMpesaRequest       = errors.New("mpesa request failed")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrMpesaNotConfigured = errors.New("mpesa credentials not configured")
)

const tokenRetries = 2

var phoneCleanPattern = regexp.MustCompile(`[\s\-()]`)

// MpesaClient talks to the Safaricom Daraja API
type MpesaClient struct {
	config config.MpesaConfig
	client *http.Client
}

func NewMpesaClient(cfg config.MpesaConfig) *MpesaClient {
	return &MpesaClient{
		config: cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// STKPushRequest is the Daraja STK Push payload
type STKPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// STKPushResponse is the Daraja STK Push acknowledgment
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// QueryResponse is the Daraja transaction status response
type QueryResponse struct {
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResultCode          string `json:"ResultCode"`
	ResultDesc          string `json:"ResultDesc"`
}

// CallbackEnvelope is the outer structure Daraja posts to the callback URL
type CallbackEnvelope struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []struct {
					Name  string      `json:"Name"`
					Value interface{} `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// CallbackResult is the flattened view of an STK callback
type CallbackResult struct {
	CheckoutRequestID string
	Success           bool
	ResultCode        int
	ResultDesc        string
	Amount            float64
	ReceiptNumber     string
	TransactionDate   string
	PhoneNumber       string
}

// Flatten normalizes the nested callback envelope into a CallbackResult.
// Metadata items are only present on success.
func (e *CallbackEnvelope) Flatten() CallbackResult {
	cb := e.Body.StkCallback
	result := CallbackResult{
		CheckoutRequestID: cb.CheckoutRequestID,
		Success:           cb.ResultCode == 0,
		ResultCode:        cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
	}
	for _, item := range cb.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			if v, ok := item.Value.(float64); ok {
				result.Amount = v
			}
		case "MpesaReceiptNumber":
			if v, ok := item.Value.(string); ok {
				result.ReceiptNumber = v
			}
		case "TransactionDate":
			switch v := item.Value.(type) {
			case float64:
				result.TransactionDate = fmt.Sprintf("%.0f", v)
			case string:
				result.TransactionDate = v
			}
		case "PhoneNumber":
			switch v := item.Value.(type) {
			case float64:
				result.PhoneNumber = fmt.Sprintf("%.0f", v)
			case string:
				result.PhoneNumber = v
			}
		}
	}
	return result
}

// FormatPhoneNumber normalizes Kenyan MSISDNs to the 254XXXXXXXXX form
// Daraja expects.
func FormatPhoneNumber(phone string) (string, error) {
	cleaned := phoneCleanPattern.ReplaceAllString(phone, "")
	cleaned = strings.TrimPrefix(cleaned, "+")

	switch {
	case strings.HasPrefix(cleaned, "254"):
	case strings.HasPrefix(cleaned, "0"):
		cleaned = "254" + cleaned[1:]
	default:
		cleaned = "254" + cleaned
	}

	if len(cleaned) != 12 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
		}
	}
	return cleaned, nil
}

// Timestamp returns the Daraja timestamp format YYYYMMDDHHmmss.
func Timestamp(t time.Time) string {
	return t.Format("20060102150405")
}

// Password builds the STK Push password for the given timestamp.
func (m *MpesaClient) Password(timestamp string) string {
	raw := m.config.Shortcode + m.config.Passkey + timestamp
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// AccessToken fetches an OAuth token via client credentials. Tokens are
// fetched per operation; the fetch alone is retried on failure.
func (m *MpesaClient) AccessToken(ctx context.Context) (string, error) {
	if m.config.ConsumerKey == "" || m.config.ConsumerSecret == "" {
		return "", ErrMpesaNotConfigured
	}

	var lastErr error
	for attempt := 0; attempt <= tokenRetries; attempt++ {
		token, err := m.fetchToken(ctx)
		if err == nil {
			return token, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("%w: %v", ErrMpesaAuth, lastErr)
}

func (m *MpesaClient) fetchToken(ctx context.Context) (string, error) {
	url := m.config.BaseURL + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(m.config.ConsumerKey, m.config.ConsumerSecret)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, body)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", err
	}
	if tokenResp.AccessToken == "" {
		return "", errors.New("empty access token")
	}
	return tokenResp.AccessToken, nil
}

// STKPush initiates a customer-to-business payment prompt on the given
// phone. Amount is rounded to whole currency units as Daraja requires.
func (m *MpesaClient) STKPush(ctx context.Context, phone string, amount float64, reference, description string) (*STKPushResponse, error) {
	msisdn, err := FormatPhoneNumber(phone)
	if err != nil {
		return nil, err
	}

	token, err := m.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := Timestamp(time.Now())
	payload := STKPushRequest{
		BusinessShortCode: m.config.Shortcode,
		Password:          m.Password(timestamp),
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            int64(math.Round(amount)),
		PartyA:            msisdn,
		PartyB:            m.config.Shortcode,
		PhoneNumber:       msisdn,
		CallBackURL:       m.config.CallbackURL,
		AccountReference:  reference,
		TransactionDesc:   description,
	}

	var stkResp STKPushResponse
	if err := m.post(ctx, "/mpesa/stkpush/v1/processrequest", token, payload, &stkResp); err != nil {
		return nil, err
	}
	if stkResp.ResponseCode != "0" {
		return nil, fmt.Errorf("%w: %s", ErrMpesaRequest, stkResp.ResponseDescription)
	}
	return &stkResp, nil
}

// QueryTransaction checks the status of a previously initiated STK Push.
func (m *MpesaClient) QueryTransaction(ctx context.Context, checkoutRequestID string) (*QueryResponse, error) {
	token, err := m.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := Timestamp(time.Now())
	payload := map[string]string{
		"BusinessShortCode": m.config.Shortcode,
		"Password":          m.Password(timestamp),
		"Timestamp":         timestamp,
		"CheckoutRequestID": checkoutRequestID,
	}

	var queryResp QueryResponse
	if err := m.post(ctx, "/mpesa/stkpushquery/v1/query", token, payload, &queryResp); err != nil {
		return nil, err
	}
	return &queryResp, nil
}

func (m *MpesaClient) post(ctx context.Context, path, token string, payload, dest interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMpesaRequest, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMpesaRequest, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", ErrMpesaRequest, resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrMpesaRequest, err)
	}
	return nil
}
