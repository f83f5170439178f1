package payments

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"deluxetours/internal/shared/config"
)

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"254712345678", "254712345678"},
		{"+254712345678", "254712345678"},
		{"0712345678", "254712345678"},
		{"712345678", "254712345678"},
		{"0712 345 678", "254712345678"},
		{"0712-345-678", "254712345678"},
		{"(254) 712345678", "254712345678"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := FormatPhoneNumber(tt.input)
			if err != nil {
				t.Fatalf("FormatPhoneNumber(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("FormatPhoneNumber(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatPhoneNumberInvalid(t *testing.T) {
	invalid := []string{
		"",
		"12345",
		"25471234567",    // 11 digits
		"2547123456789",  // 13 digits
		"07123456789012", // too long after prefixing
		"0712a45678",
	}

	for _, input := range invalid {
		if got, err := FormatPhoneNumber(input); !errors.Is(err, ErrInvalidPhone) {
			t.Errorf("FormatPhoneNumber(%q) = (%q, %v), want ErrInvalidPhone", input, got, err)
		}
	}
}

func TestTimestamp(t *testing.T) {
	at := time.Date(2026, 3, 15, 9, 5, 42, 0, time.UTC)
	if got := Timestamp(at); got != "20260315090542" {
		t.Errorf("Timestamp() = %q, want 20260315090542", got)
	}
}

func TestPassword(t *testing.T) {
	client := NewMpesaClient(config.MpesaConfig{
		Shortcode: "174379",
		Passkey:   "secretpasskey",
	})

	timestamp := "20260315090542"
	got := client.Password(timestamp)
	want := base64.StdEncoding.EncodeToString([]byte("174379secretpasskey20260315090542"))
	if got != want {
		t.Errorf("Password() = %q, want %q", got, want)
	}
}

func TestCallbackFlatten(t *testing.T) {
	payload := `{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResultCode": 0,
				"ResultDesc": "The service request is processed successfully.",
				"CallbackMetadata": {
					"Item": [
						{"Name": "Amount", "Value": 5637.6},
						{"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
						{"Name": "TransactionDate", "Value": 20191219102115},
						{"Name": "PhoneNumber", "Value": 254712345678}
					]
				}
			}
		}
	}`

	var envelope CallbackEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		t.Fatalf("unmarshal callback: %v", err)
	}

	result := envelope.Flatten()
	if !result.Success {
		t.Error("Success = false, want true")
	}
	if result.CheckoutRequestID != "ws_CO_191220191020363925" {
		t.Errorf("CheckoutRequestID = %q", result.CheckoutRequestID)
	}
	if result.Amount != 5637.6 {
		t.Errorf("Amount = %v, want 5637.6", result.Amount)
	}
	if result.ReceiptNumber != "NLJ7RT61SV" {
		t.Errorf("ReceiptNumber = %q, want NLJ7RT61SV", result.ReceiptNumber)
	}
	if result.PhoneNumber != "254712345678" {
		t.Errorf("PhoneNumber = %q, want 254712345678", result.PhoneNumber)
	}
	if result.TransactionDate != "20191219102115" {
		t.Errorf("TransactionDate = %q, want 20191219102115", result.TransactionDate)
	}
}

func TestCallbackFlattenFailure(t *testing.T) {
	payload := `{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResultCode": 1032,
				"ResultDesc": "Request cancelled by user."
			}
		}
	}`

	var envelope CallbackEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		t.Fatalf("unmarshal callback: %v", err)
	}

	result := envelope.Flatten()
	if result.Success {
		t.Error("Success = true, want false")
	}
	if result.ResultCode != 1032 {
		t.Errorf("ResultCode = %d, want 1032", result.ResultCode)
	}
	if result.ReceiptNumber != "" || result.Amount != 0 {
		t.Errorf("metadata should be empty on failure, got %+v", result)
	}
}

func TestSTKPush(t *testing.T) {
	var gotAuth string
	var gotPush STKPushRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			user, pass, ok := r.BasicAuth()
			if !ok {
				t.Error("token request missing basic auth")
			}
			gotAuth = user + ":" + pass
			json.NewEncoder(w).Encode(map[string]string{"access_token": "test-token"})
		case "/mpesa/stkpush/v1/processrequest":
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
				t.Errorf("Authorization = %q, want Bearer test-token", auth)
			}
			if err := json.NewDecoder(r.Body).Decode(&gotPush); err != nil {
				t.Errorf("decode push payload: %v", err)
			}
			json.NewEncoder(w).Encode(STKPushResponse{
				MerchantRequestID: "29115-34620561-1",
				CheckoutRequestID: "ws_CO_test",
				ResponseCode:      "0",
				CustomerMessage:   "Success. Request accepted for processing",
			})
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewMpesaClient(config.MpesaConfig{
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		Shortcode:      "174379",
		Passkey:        "passkey",
		BaseURL:        srv.URL,
		CallbackURL:    "https://example.com/api/v1/mpesa/callback",
		RequestTimeout: 5 * time.Second,
	})

	resp, err := client.STKPush(context.Background(), "0712345678", 5637.6, "DLX-TEST-ABCDE", "Tour booking")
	if err != nil {
		t.Fatalf("STKPush() error = %v", err)
	}

	if gotAuth != "key:secret" {
		t.Errorf("basic auth = %q, want key:secret", gotAuth)
	}
	if resp.CheckoutRequestID != "ws_CO_test" {
		t.Errorf("CheckoutRequestID = %q, want ws_CO_test", resp.CheckoutRequestID)
	}
	if gotPush.PhoneNumber != "254712345678" {
		t.Errorf("PhoneNumber = %q, want normalized 254712345678", gotPush.PhoneNumber)
	}
	if gotPush.Amount != 5638 {
		t.Errorf("Amount = %d, want 5638 (rounded)", gotPush.Amount)
	}
	if gotPush.TransactionType != "CustomerPayBillOnline" {
		t.Errorf("TransactionType = %q", gotPush.TransactionType)
	}
	if gotPush.AccountReference != "DLX-TEST-ABCDE" {
		t.Errorf("AccountReference = %q", gotPush.AccountReference)
	}
}

func TestSTKPushRejectedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "test-token"})
			return
		}
		json.NewEncoder(w).Encode(STKPushResponse{
			ResponseCode:        "1",
			ResponseDescription: "Invalid Access Token",
		})
	}))
	defer srv.Close()

	client := NewMpesaClient(config.MpesaConfig{
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		Shortcode:      "174379",
		Passkey:        "passkey",
		BaseURL:        srv.URL,
		RequestTimeout: 5 * time.Second,
	})

	_, err := client.STKPush(context.Background(), "0712345678", 100, "REF", "desc")
	if !errors.Is(err, ErrMpesaRequest) {
		t.Errorf("STKPush() error = %v, want ErrMpesaRequest", err)
	}
}

func TestAccessTokenRetry(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "recovered"})
	}))
	defer srv.Close()

	client := NewMpesaClient(config.MpesaConfig{
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		BaseURL:        srv.URL,
		RequestTimeout: 5 * time.Second,
	})

	token, err := client.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("AccessToken() error = %v", err)
	}
	if token != "recovered" {
		t.Errorf("token = %q, want recovered", token)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestAccessTokenExhaustsRetries(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewMpesaClient(config.MpesaConfig{
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		BaseURL:        srv.URL,
		RequestTimeout: 5 * time.Second,
	})

	_, err := client.AccessToken(context.Background())
	if !errors.Is(err, ErrMpesaAuth) {
		t.Errorf("AccessToken() error = %v, want ErrMpesaAuth", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestAccessTokenNotConfigured(t *testing.T) {
	client := NewMpesaClient(config.MpesaConfig{})
	_, err := client.AccessToken(context.Background())
	if !errors.Is(err, ErrMpesaNotConfigured) {
		t.Errorf("AccessToken() error = %v, want ErrMpesaNotConfigured", err)
	}
}
