package external

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// MpesaClient talks to the Safaricom Daraja API: OAuth token fetch and STK
// push initiation. The asynchronous payment result arrives separately on the
// configured callback URL.
type MpesaClient struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	shortCode      string
	passkey        string
	callbackURL    string
	httpClient     *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

type MpesaConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string
	Timeout        time.Duration
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

type stkPushRequest struct {
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

// STKPushResponse is the synchronous acknowledgment. CheckoutRequestID is
// the correlation id matched against the asynchronous callback.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

type apiError struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

func NewMpesaClient(cfg MpesaConfig) *MpesaClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &MpesaClient{
		baseURL:        cfg.BaseURL,
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		shortCode:      cfg.ShortCode,
		passkey:        cfg.Passkey,
		callbackURL:    cfg.CallbackURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// accessToken returns a cached OAuth token, fetching a new one when the
// cached token is within a minute of expiry.
func (c *MpesaClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.consumerKey + ":" + c.consumerSecret))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned status %d", resp.StatusCode)
	}

	var result tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}

	ttl := 3600 * time.Second
	if secs, err := time.ParseDuration(result.ExpiresIn + "s"); err == nil && secs > 0 {
		ttl = secs
	}

	c.token = result.AccessToken
	c.tokenExpiry = time.Now().Add(ttl)
	return c.token, nil
}

// InitiateSTKPush asks Daraja to push a payment prompt to the customer's
// phone. The returned CheckoutRequestID correlates the later callback.
func (c *MpesaClient) InitiateSTKPush(ctx context.Context, phone string, amount int64, reference, description string) (*STKPushResponse, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	ts := time.Now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString([]byte(c.shortCode + c.passkey + ts))

	payload := stkPushRequest{
		BusinessShortCode: c.shortCode,
		Password:          password,
		Timestamp:         ts,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            amount,
		PartyA:            phone,
		PartyB:            c.shortCode,
		PhoneNumber:       phone,
		CallBackURL:       c.callbackURL,
		AccountReference:  reference,
		TransactionDesc:   description,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stk push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/mpesa/stkpush/v1/processrequest", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build stk push request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to initiate stk push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.ErrorMessage != "" {
			return nil, fmt.Errorf("stk push rejected: %s (%s)", apiErr.ErrorMessage, apiErr.ErrorCode)
		}
		return nil, fmt.Errorf("stk push returned status %d", resp.StatusCode)
	}

	var result STKPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode stk push response: %w", err)
	}
	if result.ResponseCode != "0" {
		return nil, fmt.Errorf("stk push not accepted: %s", result.ResponseDescription)
	}

	return &result, nil
}

// SanitizePhone normalizes a Kenyan MSISDN to the 254XXXXXXXXX form Daraja
// expects.
func SanitizePhone(phone string) string {
	var cleaned strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			cleaned.WriteRune(r)
		}
	}
	digits := cleaned.String()
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, "0") {
		return "254" + digits[1:]
	}
	if !strings.HasPrefix(digits, "254") {
		return "254" + digits
	}
	return digits
}
